package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key does not exist or has expired
var ErrCacheMiss = errors.New("cache: key not found")

// Registration staging TTLs
const (
	StagingTTL  = 10 * time.Minute
	VerifiedTTL = 30 * time.Minute
)

// Store is the registration staging store. Values are JSON-marshalled.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error
}

// RegistrationDataKey holds the staged registration payload, keyed by the
// OTP correlation token.
func RegistrationDataKey(token string) string {
	return fmt.Sprintf("registration_data_%s", token)
}

// RegistrationEmailKey maps an email back to its outstanding staging token.
func RegistrationEmailKey(email string) string {
	return fmt.Sprintf("reg_email_%s", email)
}

// RegistrationVerifiedKey flags an email as OTP-verified and eligible for
// account finalization.
func RegistrationVerifiedKey(email string) string {
	return fmt.Sprintf("reg_verified_%s", email)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient dials redis and verifies connectivity
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache key: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}
