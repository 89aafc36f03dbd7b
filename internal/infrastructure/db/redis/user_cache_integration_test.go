package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/users-api/internal/core/domain"
)

func TestUserCacheIntegration(t *testing.T) {
	if os.Getenv("SKIP_DOCKER") == "1" {
		t.Skip("SKIP_DOCKER=1 set; skipping integration test")
	}
	if testing.Short() {
		t.Skip("short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	ctx := context.Background()
	var client *redis.Client
	err = pool.Retry(func() error {
		var connErr error
		client, connErr = Connect(ctx, Config{Addr: fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp"))})
		return connErr
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewUserCache(client, time.Minute)

	miss, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, miss)

	joined := time.Date(2022, 12, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Set(ctx, &domain.User{
		ID:           1,
		Username:     "alice1",
		Email:        "alice@example.com",
		PasswordHash: "secret-hash",
		DateJoined:   joined,
	}))

	hit, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, hit)
	require.Equal(t, "alice1", hit.Username)
	require.Empty(t, hit.PasswordHash)
	require.True(t, joined.Equal(hit.DateJoined))

	ttl, err := client.TTL(ctx, "user:1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}
