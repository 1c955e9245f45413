package qrcache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// setupRedis поднимает Redis в Docker, контейнер остановится после теста
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("интеграционный тест с Docker")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedis_SetGetDelete(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	c := NewRedis(client, WithKeyPrefix("test:qr:"))

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	img := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	require.NoError(t, c.Set(ctx, "a", img))

	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, img, got)

	// Ключ с префиксом
	exists, err := client.Exists(ctx, "test:qr:a").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	require.NoError(t, c.Delete(ctx, "a"))
	_, ok, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_TTL(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	c := NewRedis(client, WithTTL(time.Minute))

	require.NoError(t, c.Set(ctx, "b", []byte("img")))

	ttl, err := client.TTL(ctx, defaultKeyPrefix+"b").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedis_ClosedClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	client.Close()

	_, _, err := NewRedis(client).Get(context.Background(), "x")
	assert.Error(t, err)
}
