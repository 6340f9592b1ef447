// Package cache holds the redis-backed notification store and an in-memory
// fallback for deployments without redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/retailcore/pos-api/internal/application/notify"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
)

// feedCap bounds each recipient feed; LTRIM discards the oldest past this.
const feedCap = 200

var _ notify.Store = (*RedisStore)(nil)

// RedisStore keeps one redis list per recipient, newest notification first.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping verifies the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func feedKey(recipient string) string {
	return "notifications:" + recipient
}

func (s *RedisStore) Push(ctx context.Context, recipient string, n *entity.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	key := feedKey(recipient)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, feedCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, recipient string, limit int) ([]*entity.Notification, error) {
	vals, err := s.client.LRange(ctx, feedKey(recipient), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]*entity.Notification, 0, len(vals))
	for _, v := range vals {
		var n entity.Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			// Skip entries written by an incompatible version.
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}

func (s *RedisStore) MarkRead(ctx context.Context, recipient, id string) error {
	key := feedKey(recipient)
	vals, err := s.client.LRange(ctx, key, 0, feedCap-1).Result()
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}
	for i, v := range vals {
		var n entity.Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil || n.ID != id {
			continue
		}
		n.Read = true
		payload, err := json.Marshal(&n)
		if err != nil {
			return fmt.Errorf("encode notification: %w", err)
		}
		if err := s.client.LSet(ctx, key, int64(i), payload).Err(); err != nil {
			return fmt.Errorf("mark notification read: %w", err)
		}
		return nil
	}
	return domain.ErrNotFound
}
