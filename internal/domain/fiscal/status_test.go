package fiscal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailcore/pos-api/internal/domain/fiscal"
)

func TestAggregateStatus_PriorityTable(t *testing.T) {
	cases := []struct {
		name string
		snap fiscal.Snapshot
		want string
	}{
		{
			"no configuration",
			fiscal.Snapshot{},
			fiscal.StatusNotConfigured,
		},
		{
			"disabled",
			fiscal.Snapshot{Configured: true},
			fiscal.StatusConfigured,
		},
		{
			"enabled with active device",
			fiscal.Snapshot{Configured: true, Enabled: true, HasActiveDevice: true},
			fiscal.StatusActive,
		},
		{
			"enabled without active device",
			fiscal.Snapshot{Configured: true, Enabled: true},
			fiscal.StatusError,
		},
		{
			"failed transactions override active",
			fiscal.Snapshot{Configured: true, Enabled: true, HasActiveDevice: true, FailedCount: 2},
			fiscal.StatusWarning,
		},
		{
			"offline queue overrides warning",
			fiscal.Snapshot{Configured: true, Enabled: true, HasActiveDevice: true, FailedCount: 2, OfflineQueued: 1},
			fiscal.StatusOffline,
		},
		{
			"missing configuration beats queued entries",
			fiscal.Snapshot{OfflineQueued: 5, FailedCount: 5},
			fiscal.StatusNotConfigured,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fiscal.AggregateStatus(tc.snap))
		})
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not initialized", errors.New("FDMS device not initialized"), fiscal.ClassNotInitialized},
		{"validation", errors.New("Validation failed: missing buyer TIN"), fiscal.ClassValidation},
		{"network word", errors.New("network unreachable"), fiscal.ClassNetwork},
		{"connection refused", errors.New("dial tcp 10.0.0.1:443: connection refused"), fiscal.ClassNetwork},
		{"timeout", errors.New("context deadline exceeded: timeout"), fiscal.ClassNetwork},
		{"anything else", errors.New("pq: relation does not exist"), fiscal.ClassInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fiscal.ClassifyError(tc.err))
		})
	}
}
