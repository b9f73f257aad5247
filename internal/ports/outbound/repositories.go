// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the raw clients the application layer wraps with its failure policy.
package outbound

import (
	"context"

	"github.com/shelfie/shelfie/internal/domain/analysis"
)

// AnalyticsRepository stores flat analytics rows
type AnalyticsRepository interface {
	// Insert writes one record and reports the number of rows affected.
	Insert(ctx context.Context, record analysis.AnalyticsRecord) (int64, error)
	Ping(ctx context.Context) error
}

// HistoryStore keeps the most recent entries per kind, oldest evicted first
type HistoryStore interface {
	Push(ctx context.Context, entry analysis.HistoryEntry, limit int) error
	Recent(ctx context.Context, kind analysis.HistoryKind) ([]analysis.HistoryEntry, error)
	Clear(ctx context.Context) error
}
