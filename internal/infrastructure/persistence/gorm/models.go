// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealAnalysisModel is the flat analytics row for one finished meal analysis
type MealAnalysisModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Timestamp    string    `gorm:"type:varchar(40);not null;index"`
	AnalysisText string    `gorm:"type:text;not null"`
	Calories     float64   `gorm:"not null;default:0"`
	Protein      float64   `gorm:"not null;default:0"`
	Carbs        float64   `gorm:"not null;default:0"`
	Fat          float64   `gorm:"not null;default:0"`
	HealthRating string    `gorm:"type:varchar(32);not null"`
	CreatedAt    time.Time
}

// TableName pins the destination table
func (MealAnalysisModel) TableName() string {
	return "meal_analyses"
}

// BeforeCreate assigns the surrogate key
func (m *MealAnalysisModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Models lists everything AutoMigrate must create
func Models() []interface{} {
	return []interface{}{&MealAnalysisModel{}}
}
