package cache

import (
	"context"
	"sync"

	"github.com/retailcore/pos-api/internal/application/notify"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
)

var _ notify.Store = (*MemoryStore)(nil)

// MemoryStore keeps notification feeds in process memory. Used when no redis
// address is configured; feeds do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	feeds map[string][]*entity.Notification
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{feeds: make(map[string][]*entity.Notification)}
}

func (s *MemoryStore) Push(_ context.Context, recipient string, n *entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	feed := append([]*entity.Notification{&cp}, s.feeds[recipient]...)
	if len(feed) > feedCap {
		feed = feed[:feedCap]
	}
	s.feeds[recipient] = feed
	return nil
}

func (s *MemoryStore) List(_ context.Context, recipient string, limit int) ([]*entity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feed := s.feeds[recipient]
	if len(feed) > limit {
		feed = feed[:limit]
	}
	out := make([]*entity.Notification, 0, len(feed))
	for _, n := range feed {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, recipient, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.feeds[recipient] {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}
