// Package history records finished requests into a bounded, per-kind session history
package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
	"github.com/shelfie/shelfie/pkg/errors"
)

// DefaultLimit is the number of entries kept per kind
const DefaultLimit = 10

// Service keeps the most recent entries of each kind
type Service struct {
	store  outbound.HistoryStore
	limit  int
	logger *zap.Logger
}

// NewService creates a new history service
func NewService(store outbound.HistoryStore, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		store:  store,
		limit:  limit,
		logger: logger.Named("history-service"),
	}
}

// Limit returns the per-kind bound
func (s *Service) Limit() int {
	return s.limit
}

// Record appends a finished result. History is best effort: a store failure
// is logged and never reaches the caller.
func (s *Service) Record(ctx context.Context, result *analysis.AnalysisResult) {
	if result == nil {
		return
	}
	entry := analysis.NewHistoryEntry(result)
	if err := s.store.Push(ctx, entry, s.limit); err != nil {
		s.logger.Warn("Failed to record history entry",
			zap.String("kind", string(entry.Kind)),
			zap.String("request_id", entry.ID),
			zap.Error(err))
	}
}

// Recent returns at most Limit entries of kind, newest first
func (s *Service) Recent(ctx context.Context, kind analysis.HistoryKind) ([]analysis.HistoryEntry, error) {
	switch kind {
	case analysis.HistoryAnalysis, analysis.HistorySuggestion:
	default:
		return nil, errors.NewValidationError("kind must be one of: analysis, suggestion")
	}

	entries, err := s.store.Recent(ctx, kind)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read history")
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return entries, nil
}

// Clear drops every kind
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear history")
	}
	return nil
}
