package gorm

import "github.com/shelfie/shelfie/internal/domain/analysis"

func toMealAnalysisModel(record analysis.AnalyticsRecord) *MealAnalysisModel {
	return &MealAnalysisModel{
		Timestamp:    record.Timestamp,
		AnalysisText: record.AnalysisText,
		Calories:     record.Calories,
		Protein:      record.Protein,
		Carbs:        record.Carbs,
		Fat:          record.Fat,
		HealthRating: record.HealthRating,
	}
}

func toAnalyticsRecord(m *MealAnalysisModel) analysis.AnalyticsRecord {
	return analysis.AnalyticsRecord{
		Timestamp:    m.Timestamp,
		AnalysisText: m.AnalysisText,
		Calories:     m.Calories,
		Protein:      m.Protein,
		Carbs:        m.Carbs,
		Fat:          m.Fat,
		HealthRating: m.HealthRating,
	}
}
