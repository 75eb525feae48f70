package credentials

import (
	"context"
	"fmt"
	"time"

	"coaching-admin-client/internal/config"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/pkg/errors"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Provider hands out the bearer token attached to every backend call.
// A missing token must abort the caller before any network I/O happens.
type Provider interface {
	GetToken(ctx context.Context) (string, error)
}

// RedisStore reads the token from the local credential store. Older app
// builds wrote the token under different keys, so the configured key
// chain is tried in order and the first hit wins.
type RedisStore struct {
	client *redis.Client
	keys   []string
	log    zerolog.Logger
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping credential store: %w", err)
	}

	return &RedisStore{
		client: rdb,
		keys:   cfg.Redis.TokenKeys,
		log:    logger.Component("credentials"),
	}, nil
}

func (s *RedisStore) GetToken(ctx context.Context) (string, error) {
	for _, key := range s.keys {
		token, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read token key %q: %w", key, err)
		}
		if token != "" {
			s.log.Debug().Str("key", key).Msg("Token resolved")
			return token, nil
		}
	}
	return "", errors.ErrNoCredentials
}

// SetToken writes the token under the primary key and clears the legacy
// ones so the chain converges.
func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	if len(s.keys) == 0 {
		return fmt.Errorf("no token keys configured")
	}
	if err := s.client.Set(ctx, s.keys[0], token, 0).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	for _, key := range s.keys[1:] {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to clear legacy token key")
		}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Static is a fixed-token provider, used by the tests and one-shot
// commands that receive the token out of band.
type Static struct {
	Token string
}

func (s Static) GetToken(context.Context) (string, error) {
	if s.Token == "" {
		return "", errors.ErrNoCredentials
	}
	return s.Token, nil
}
