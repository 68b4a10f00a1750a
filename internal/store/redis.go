package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayush/user-console/internal/models"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// RedisNotices keeps form notices in Redis; the key TTL clears them.
type RedisNotices struct {
	rdb *redis.Client
}

func NewRedisNotices(rdb *redis.Client) *RedisNotices {
	return &RedisNotices{rdb: rdb}
}

func noticeKey(sessionID string) string {
	return "notice:" + sessionID
}

func (s *RedisNotices) Set(ctx context.Context, sessionID string, n models.Notice, ttl time.Duration) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	return s.rdb.Set(ctx, noticeKey(sessionID), data, ttl).Err()
}

// Get returns the session's notice, or a zero Notice if none / expired.
func (s *RedisNotices) Get(ctx context.Context, sessionID string) (models.Notice, error) {
	val, err := s.rdb.Get(ctx, noticeKey(sessionID)).Bytes()
	if err == redis.Nil {
		return models.Notice{}, nil
	}
	if err != nil {
		return models.Notice{}, err
	}
	var n models.Notice
	if err := json.Unmarshal(val, &n); err != nil {
		return models.Notice{}, fmt.Errorf("decode notice: %w", err)
	}
	return n, nil
}
