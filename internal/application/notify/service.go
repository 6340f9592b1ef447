package notify

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/pkg/logger"
)

// BroadcastRecipient is the shared feed every operator sees alongside their
// own notifications. Fiscal alerts land here.
const BroadcastRecipient = "broadcast"

// Store is the persistence port for notifications (redis-backed in
// production, in-memory in tests).
type Store interface {
	Push(ctx context.Context, recipient string, n *entity.Notification) error
	List(ctx context.Context, recipient string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, recipient, id string) error
}

// Service publishes and reads operator notifications. It satisfies the
// fiscal coordinator's notifier port.
type Service struct {
	store Store
	log   *logger.Logger
}

// NewService builds the service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// NotifyFiscal pushes a fiscal alert onto the broadcast feed. Publishing is
// best-effort; a dead store must not break submissions.
func (s *Service) NotifyFiscal(ctx context.Context, title, body string) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    BroadcastRecipient,
		Title:     title,
		Body:      body,
		Kind:      "fiscal",
		CreatedAt: time.Now(),
	}
	if err := s.store.Push(ctx, BroadcastRecipient, n); err != nil {
		s.log.Warn().Err(err).Msg("could not publish fiscal notification")
	}
}

// Notify pushes a notification to one operator.
func (s *Service) Notify(ctx context.Context, userID, title, body, kind string) error {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	return s.store.Push(ctx, userID, n)
}

const feedLimit = 50

// List returns the operator's feed merged with the broadcast feed, newest
// first.
func (s *Service) List(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	own, err := s.store.List(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	shared, err := s.store.List(ctx, BroadcastRecipient, feedLimit)
	if err != nil {
		return nil, err
	}
	merged := append(own, shared...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].CreatedAt.After(merged[j].CreatedAt) })
	if len(merged) > feedLimit {
		merged = merged[:feedLimit]
	}
	out := make([]dto.NotificationResponse, 0, len(merged))
	for _, n := range merged {
		out = append(out, dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Body:      n.Body,
			Kind:      n.Kind,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead flags one notification as read. Broadcast entries are marked in
// place for everyone; per-operator read tracking on the shared feed is not
// worth a second keyspace here.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.store.MarkRead(ctx, userID, id); err == nil {
		return nil
	}
	return s.store.MarkRead(ctx, BroadcastRecipient, id)
}
