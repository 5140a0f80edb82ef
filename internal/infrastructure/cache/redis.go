package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"ojalocal/pkg/logger"
)

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

// InboxCache stores the serialized inbox projection per user for a few
// seconds, matching the client polling interval. It is strictly an
// optimization: every failure degrades to a cache miss.
type InboxCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewInboxCache(client *redis.Client, ttl time.Duration) *InboxCache {
	return &InboxCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *InboxCache) key(userID string) string {
	return "inbox:" + userID
}

func (c *InboxCache) Get(ctx context.Context, userID string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Debug("Inbox cache read for user %s failed: %v", userID, err)
		}
		return nil, false
	}
	return payload, true
}

func (c *InboxCache) Set(ctx context.Context, userID string, payload []byte) {
	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		logger.Debug("Inbox cache write for user %s failed: %v", userID, err)
	}
}

func (c *InboxCache) Invalidate(ctx context.Context, userIDs ...string) {
	keys := make([]string, len(userIDs))
	for i, userID := range userIDs {
		keys[i] = c.key(userID)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Debug("Inbox cache invalidation failed: %v", err)
	}
}
