// Package persistence selects the analytics database driver
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfie/shelfie/internal/infrastructure/config"
	"github.com/shelfie/shelfie/internal/infrastructure/persistence/postgres"
	"github.com/shelfie/shelfie/internal/infrastructure/persistence/sqlite"
)

// OpenAnalyticsDB opens the configured analytics database
func OpenAnalyticsDB(ctx context.Context, cfg config.AnalyticsConfig, zapLogger *zap.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Connect(ctx, cfg, zapLogger)
	case "sqlite", "":
		db, err := sqlite.SetupDatabase(cfg.Path, logger.Warn, cfg.AutoMigrate)
		if err != nil {
			return nil, err
		}
		zapLogger.Info("Opened SQLite analytics database", zap.String("path", cfg.Path))
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported analytics driver %q", cfg.Driver)
	}
}
