package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatStateKeyPattern = "chat:state:%d"
	// Abandoned form sessions expire on their own; a stale dialog state is
	// indistinguishable from idle for the router.
	stateTTL = time.Hour
)

// RedisStorage persists dialog FSM states in Redis.
type RedisStorage struct {
	client redis.Cmdable
	log    *slog.Logger
}

// NewRedisStorage initializes a Redis-backed Storage implementation.
func NewRedisStorage(client redis.Cmdable, log *slog.Logger) Storage {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStorage{
		client: client,
		log:    log,
	}
}

// GetState returns the stored chat state or ErrStateNotFound when absent.
func (s *RedisStorage) GetState(ctx context.Context, chatID int64) (*UserState, error) {
	key := redisChatStateKey(chatID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}

		s.log.Error("failed to get state from redis", "chat_id", chatID, "error", err)
		return nil, err
	}

	var state UserState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		s.log.Error("failed to decode chat state", "chat_id", chatID, "error", err)
		return nil, err
	}

	return &state, nil
}

// SetState saves the provided chat state with the session TTL.
func (s *RedisStorage) SetState(ctx context.Context, chatID int64, state *UserState) error {
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		s.log.Error("failed to encode chat state", "chat_id", chatID, "error", err)
		return err
	}

	key := redisChatStateKey(chatID)
	if err := s.client.Set(ctx, key, data, stateTTL).Err(); err != nil {
		s.log.Error("failed to save state in redis", "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

// ClearState removes the stored state for the given chat.
func (s *RedisStorage) ClearState(ctx context.Context, chatID int64) error {
	key := redisChatStateKey(chatID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to clear chat state", "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

func redisChatStateKey(chatID int64) string {
	return fmt.Sprintf(chatStateKeyPattern, chatID)
}
