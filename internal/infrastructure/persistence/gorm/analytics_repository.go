package gorm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// AnalyticsRepository implements outbound.AnalyticsRepository using GORM
type AnalyticsRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB, logger *zap.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{
		db:     db,
		logger: logger.Named("analytics-repo"),
	}
}

var _ outbound.AnalyticsRepository = (*AnalyticsRepository)(nil)

// Insert writes one row into meal_analyses
func (r *AnalyticsRepository) Insert(ctx context.Context, record analysis.AnalyticsRecord) (int64, error) {
	model := toMealAnalysisModel(record)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert analytics row: %w", result.Error)
	}

	r.logger.Debug("Analytics row inserted",
		zap.String("id", model.ID.String()),
		zap.Float64("calories", model.Calories))

	return result.RowsAffected, nil
}

// Recent returns the newest rows first
func (r *AnalyticsRepository) Recent(ctx context.Context, limit int) ([]analysis.AnalyticsRecord, error) {
	var models []MealAnalysisModel
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query analytics rows: %w", err)
	}

	records := make([]analysis.AnalyticsRecord, 0, len(models))
	for i := range models {
		records = append(records, toAnalyticsRecord(&models[i]))
	}
	return records, nil
}

// Ping checks the underlying connection
func (r *AnalyticsRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
