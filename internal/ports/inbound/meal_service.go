// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/shelfie/shelfie/internal/application/capability"
	"github.com/shelfie/shelfie/internal/domain/analysis"
)

// MealService defines the meal analysis use cases
// This is the primary port that the HTTP API and the CLI use
type MealService interface {
	// Pipelines: one generative call each, fatal errors only for
	// validation, encoding, generation, malformed replies and timeouts
	AnalyzeMeal(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisResult, error)
	SuggestMeals(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisResult, error)

	// Narration is best effort and returns the strategy that spoke, or ""
	Narrate(ctx context.Context, text, language string) string
	ValidateNarration(text, language string) error

	// Queries
	Capabilities() capability.Status
	History(ctx context.Context, kind analysis.HistoryKind) ([]analysis.HistoryEntry, error)
}
