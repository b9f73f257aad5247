//go:build integration
// +build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/shelfie/shelfie/internal/domain/analysis"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestHistoryStore_Redis(t *testing.T) {
	client := startRedis(t)
	store := NewHistoryStore(client, "test:history", zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.Push(ctx, analysis.HistoryEntry{
			ID:       fmt.Sprint(i),
			Kind:     analysis.HistoryAnalysis,
			Calories: float64(100 * i),
		}, 2))
	}

	got, err := store.Recent(ctx, analysis.HistoryAnalysis)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, 300.0, got[0].Calories)
	assert.Equal(t, "2", got[1].ID)

	require.NoError(t, client.LPush(ctx, "test:history:analysis", "not-json").Err())
	got, err = store.Recent(ctx, analysis.HistoryAnalysis)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Recent(ctx, analysis.HistoryAnalysis)
	require.NoError(t, err)
	assert.Empty(t, got)
}
