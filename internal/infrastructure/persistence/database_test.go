package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shelfie/shelfie/internal/infrastructure/config"
)

func TestOpenAnalyticsDB_SQLite(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"in memory", ":memory:"},
		{"empty path falls back to memory", ""},
		{"file", filepath.Join(t.TempDir(), "analytics.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenAnalyticsDB(context.Background(), config.AnalyticsConfig{
				Driver:      "sqlite",
				Path:        tt.path,
				AutoMigrate: true,
			}, zaptest.NewLogger(t))
			require.NoError(t, err)

			sqlDB, err := db.DB()
			require.NoError(t, err)
			t.Cleanup(func() { _ = sqlDB.Close() })

			assert.True(t, db.Migrator().HasTable("meal_analyses"))
		})
	}
}

func TestOpenAnalyticsDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenAnalyticsDB(context.Background(), config.AnalyticsConfig{Driver: "bigquery"}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported analytics driver "bigquery"`)
}
