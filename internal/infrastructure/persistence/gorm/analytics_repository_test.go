package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm/logger"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	gormrepo "github.com/shelfie/shelfie/internal/infrastructure/persistence/gorm"
	"github.com/shelfie/shelfie/internal/infrastructure/persistence/sqlite"
)

func TestAnalyticsRepository_InsertAndRecent(t *testing.T) {
	db, err := sqlite.SetupDatabase("", logger.Silent, true)
	require.NoError(t, err)

	repo := gormrepo.NewAnalyticsRepository(db, zaptest.NewLogger(t))
	ctx := context.Background()
	require.NoError(t, repo.Ping(ctx))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := analysis.NewAnalyticsRecord("older", analysis.NutritionFields{Calories: 300, HealthRating: "Good"}, base)
	second := analysis.NewAnalyticsRecord("newer", analysis.NutritionFields{Calories: 425, Protein: 35, Carbs: 45, Fat: 8, HealthRating: "Excellent"}, base.Add(time.Minute))

	for _, rec := range []analysis.AnalyticsRecord{first, second} {
		rows, err := repo.Insert(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
	}

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second, recent[0])
	assert.Equal(t, first, recent[1])

	var count int64
	require.NoError(t, db.Table("meal_analyses").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAnalyticsRepository_InsertFailsWithoutTable(t *testing.T) {
	db, err := sqlite.SetupDatabase("", logger.Silent, false)
	require.NoError(t, err)

	repo := gormrepo.NewAnalyticsRepository(db, zaptest.NewLogger(t))
	_, err = repo.Insert(context.Background(), analysis.AnalyticsRecord{HealthRating: analysis.UnknownRating})
	assert.Error(t, err)
}
