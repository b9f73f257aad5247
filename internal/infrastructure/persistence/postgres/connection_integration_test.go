//go:build integration
// +build integration

package postgres

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/infrastructure/config"
	gormrepo "github.com/shelfie/shelfie/internal/infrastructure/persistence/gorm"
)

func TestConnect_InsertsIntoMealAnalyses(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "shelfie",
				"POSTGRES_USER":     "shelfie",
				"POSTGRES_PASSWORD": "shelfie",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	db, err := Connect(ctx, config.AnalyticsConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         portNum,
		Database:     "shelfie",
		Username:     "shelfie",
		Password:     "shelfie",
		SSLMode:      "disable",
		MaxOpenConns: 4,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	repo := gormrepo.NewAnalyticsRepository(db, zaptest.NewLogger(t))
	rows, err := repo.Insert(ctx, analysis.NewAnalyticsRecord("text", analysis.NutritionFields{Calories: 425, HealthRating: "Excellent"}, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}
