package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cruisedesk/sales-service/cache"
	"github.com/cruisedesk/sales-service/model"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements both the session store and the availability cache on
// a single Redis connection.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("sales_session:%s", sessionID)
}

func availabilityKey(sailingID string) string {
	return fmt.Sprintf("sailing_unavailable:%s", sailingID)
}

// GetSession retrieves a sales session by id.
func (r *RedisStore) GetSession(ctx context.Context, sessionID string) (*model.SalesSession, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, cache.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.SalesSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveSession stores a sales session, refreshing its TTL.
func (r *RedisStore) SaveSession(ctx context.Context, session *model.SalesSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.ID), data, ttl).Err()
}

// DeleteSession removes a sales session.
func (r *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

// GetUnavailableCabins returns the cached unavailable set for a sailing.
func (r *RedisStore) GetUnavailableCabins(ctx context.Context, sailingID string) ([]string, bool, error) {
	data, err := r.client.Get(ctx, availabilityKey(sailingID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // Cache miss
		}
		return nil, false, err
	}

	var cabinIDs []string
	if err := json.Unmarshal([]byte(data), &cabinIDs); err != nil {
		return nil, false, err
	}
	return cabinIDs, true, nil
}

// SetUnavailableCabins caches the unavailable set for a sailing.
func (r *RedisStore) SetUnavailableCabins(ctx context.Context, sailingID string, cabinIDs []string, ttl time.Duration) error {
	data, err := json.Marshal(cabinIDs)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, availabilityKey(sailingID), data, ttl).Err()
}

// InvalidateUnavailableCabins drops the cached set so the next read refetches.
func (r *RedisStore) InvalidateUnavailableCabins(ctx context.Context, sailingID string) error {
	return r.client.Del(ctx, availabilityKey(sailingID)).Err()
}

// Ping checks if Redis is healthy.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
