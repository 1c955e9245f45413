package qrcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "linkdash:qr:"

// Redis кеш QR-кодов в Redis, общий для нескольких процессов клиента
type Redis struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

type RedisOption func(r *Redis)

// WithKeyPrefix префикс ключей
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.keyPrefix = prefix
	}
}

// WithTTL время жизни записи; 0 означает без срока
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// NewRedis создаёт кеш; клиентом владеет вызывающий
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(linkID string) string {
	return r.keyPrefix + linkID
}

func (r *Redis) Get(ctx context.Context, linkID string) ([]byte, bool, error) {
	img, err := r.client.Get(ctx, r.key(linkID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ошибка чтения QR из redis: %w", err)
	}
	return img, true, nil
}

func (r *Redis) Set(ctx context.Context, linkID string, img []byte) error {
	if err := r.client.Set(ctx, r.key(linkID), img, r.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи QR в redis: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, linkID string) error {
	if err := r.client.Del(ctx, r.key(linkID)).Err(); err != nil {
		return fmt.Errorf("ошибка удаления QR из redis: %w", err)
	}
	return nil
}
