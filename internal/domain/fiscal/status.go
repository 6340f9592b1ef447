// Package fiscal holds the pure FDMS lifecycle rules: overall health
// derivation and submission error classification. No I/O here.
package fiscal

import "strings"

// Overall FDMS health words, as reported by GET /api/fdms/status.
const (
	StatusNotConfigured = "not_configured"
	StatusConfigured    = "configured"
	StatusActive        = "active"
	StatusError         = "error"
	StatusWarning       = "warning"
	StatusOffline       = "offline"
)

// Snapshot is the read-model the health derivation runs on.
type Snapshot struct {
	Configured       bool
	Enabled          bool
	HasActiveDevice  bool
	FailedCount      int
	OfflineQueued    int
}

// statusRule is one row of the priority table. First matching rule wins.
type statusRule struct {
	matches func(Snapshot) bool
	status  string
}

// Priority order: queued offline work trumps everything but a missing
// configuration; failed transactions trump the enabled/device checks.
var statusRules = []statusRule{
	{func(s Snapshot) bool { return !s.Configured }, StatusNotConfigured},
	{func(s Snapshot) bool { return s.OfflineQueued > 0 }, StatusOffline},
	{func(s Snapshot) bool { return s.FailedCount > 0 }, StatusWarning},
	{func(s Snapshot) bool { return !s.Enabled }, StatusConfigured},
	{func(s Snapshot) bool { return s.HasActiveDevice }, StatusActive},
}

// AggregateStatus derives the single overall status word from a snapshot by
// walking the rule table in priority order.
func AggregateStatus(s Snapshot) string {
	for _, r := range statusRules {
		if r.matches(s) {
			return r.status
		}
	}
	// enabled but no active device
	return StatusError
}

// Submission error classes mapped to HTTP status codes by the handler layer.
const (
	ClassNotInitialized = "not_initialized" // 503
	ClassValidation     = "validation"      // 422
	ClassNetwork        = "network"         // 503
	ClassInternal       = "internal"        // 500
)

// ClassifyError buckets a submission failure by known message substrings.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not initialized"):
		return ClassNotInitialized
	case strings.Contains(msg, "validation"):
		return ClassValidation
	case strings.Contains(msg, "network"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "timeout"):
		return ClassNetwork
	default:
		return ClassInternal
	}
}
