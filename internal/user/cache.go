package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/painnoll/painnoll-bot/internal/domain"
)

const cacheTTL = 5 * time.Minute

// Cache provides Redis-backed caching for user profiles. A nil Cache is valid
// and disables caching.
type Cache struct {
	client redis.Cmdable
}

// NewCache constructs a profile cache backed by the provided Redis client.
func NewCache(client redis.Cmdable) *Cache {
	return &Cache{client: client}
}

// Get fetches a cached profile if it exists; (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, chatID int64) (*domain.UserProfile, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, cacheKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached profile: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}

	return &profile, nil
}

// Set stores the profile in cache.
func (c *Cache) Set(ctx context.Context, profile *domain.UserProfile) error {
	if c == nil || c.client == nil || profile == nil {
		return nil
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile for cache: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(profile.ChatID), payload, cacheTTL).Err(); err != nil {
		return fmt.Errorf("set cached profile: %w", err)
	}

	return nil
}

// Invalidate removes the cached profile entry if it exists.
func (c *Cache) Invalidate(ctx context.Context, chatID int64) error {
	if c == nil || c.client == nil {
		return nil
	}

	if err := c.client.Del(ctx, cacheKey(chatID)).Err(); err != nil {
		return fmt.Errorf("delete cached profile: %w", err)
	}

	return nil
}

func cacheKey(chatID int64) string {
	return fmt.Sprintf("profile:%d", chatID)
}
