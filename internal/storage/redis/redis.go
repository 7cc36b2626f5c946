// Package redis provides a Redis-backed PlanStore for sharing the plan
// cache between instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openfreight/roadlog/internal/config"
	"github.com/openfreight/roadlog/internal/storage"
)

const planKeyPrefix = "roadlog:plan:"

// Store implements the storage.PlanStore interface using Redis
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Open creates a new Redis-backed plan store. Cached plans expire after
// ttl; a zero ttl keeps them until evicted.
func Open(cfg config.RedisConfig, ttl time.Duration) (*Store, error) {
	dialTimeout, err := time.ParseDuration(cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid dial_timeout: %w", err)
	}

	readTimeout, err := time.ParseDuration(cfg.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid read_timeout: %w", err)
	}

	writeTimeout, err := time.ParseDuration(cfg.WriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid write_timeout: %w", err)
	}

	// Determine address
	addr := cfg.Host
	if cfg.Port > 0 {
		addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	// Ping to verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, ttl: ttl}, nil
}

// GetPlan implements storage.PlanStore.
func (s *Store) GetPlan(ctx context.Context, fingerprint string) ([]byte, error) {
	payload, err := s.client.Get(ctx, planKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// PutPlan implements storage.PlanStore.
func (s *Store) PutPlan(ctx context.Context, fingerprint string, payload []byte) error {
	return s.client.Set(ctx, planKeyPrefix+fingerprint, payload, s.ttl).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
