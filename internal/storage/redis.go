// Package storage provides the persistence backends behind the quest
// engine's ports: session records, per-session locks, scene journals
// and the zen-points ledger. Redis backs shared deployments; the
// memory variants back single-process ones and tests.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

const (
	sessionKeyPrefix = "quest:"
	lockKeyPrefix    = "quest-lock:"
	journalKeyPrefix = "quest-journal:"

	// lockTTL bounds how long a crashed request can hold a session.
	// Generation runs against a shorter timeout, so an expired lock
	// always means the holder is gone.
	lockTTL = 2 * time.Minute

	// journalCap bounds the scene trail kept per session.
	journalCap = 50
)

// releaseScript deletes a lock only when it still holds the caller's
// token, so an expired hold can never release a newer one.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// RedisStore implements quest.Store, quest.Locker and quest.Journal on
// a shared Redis instance. Session records expire after ttl of
// inactivity; every save renews the clock.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var (
	_ quest.Store   = (*RedisStore)(nil)
	_ quest.Locker  = (*RedisStore)(nil)
	_ quest.Journal = (*RedisStore)(nil)
)

// NewRedisStore connects to the Redis instance named by redisURL
// (redis://host:port form).
func NewRedisStore(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisStore{
		client: redis.NewClient(opt),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Client exposes the underlying connection for sharing with the event
// broadcaster.
func (r *RedisStore) Client() *redis.Client {
	return r.client
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Session record operations

func (r *RedisStore) Save(ctx context.Context, p *quest.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		r.logger.Error("Failed to marshal session", "session_id", p.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionKeyPrefix + p.ID
	if err := r.client.Set(ctx, key, string(data), r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", "session_id", p.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*quest.Player, error) {
	key := sessionKeyPrefix + id
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		return nil, nil
	}

	var p quest.Player
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		r.logger.Error("Failed to unmarshal session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &p, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	key := sessionKeyPrefix + id
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete session", "session_id", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Lock operations

func (r *RedisStore) Acquire(ctx context.Context, id string) (string, bool, error) {
	token := uuid.NewString()
	key := lockKeyPrefix + id

	ok, err := r.client.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		r.logger.Error("Failed to acquire session lock", "session_id", id, "error", err)
		return "", false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

func (r *RedisStore) Release(ctx context.Context, id, token string) error {
	key := lockKeyPrefix + id

	if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("Failed to release session lock", "session_id", id, "error", err)
		return fmt.Errorf("failed to release lock: %w", err)
	}

	return nil
}

// Journal operations

func (r *RedisStore) Append(ctx context.Context, id, scene string) error {
	key := journalKeyPrefix + id

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, scene)
	pipe.LTrim(ctx, key, 0, journalCap-1)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to append journal scene", "session_id", id, "error", err)
		return fmt.Errorf("failed to append journal scene: %w", err)
	}

	return nil
}

func (r *RedisStore) Recent(ctx context.Context, id string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	key := journalKeyPrefix + id
	scenes, err := r.client.LRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		r.logger.Error("Failed to read journal", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return scenes, nil
}

func (r *RedisStore) Clear(ctx context.Context, id string) error {
	key := journalKeyPrefix + id
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to clear journal", "session_id", id, "error", err)
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}
