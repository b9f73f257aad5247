package capability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// AnalyticsSink archives finished meal analyses as flat rows
type AnalyticsSink struct {
	repo     outbound.AnalyticsRepository
	backend  string
	timeout  time.Duration
	logger   *zap.Logger
	failures FailureRecorder
}

// NewAnalyticsSink creates a sink. A nil repository makes it permanently unavailable.
func NewAnalyticsSink(repo outbound.AnalyticsRepository, backend string, timeout time.Duration, logger *zap.Logger, failures FailureRecorder) *AnalyticsSink {
	return &AnalyticsSink{
		repo:     repo,
		backend:  backend,
		timeout:  timeout,
		logger:   logger.Named("analytics-sink"),
		failures: recorderOrNop(failures),
	}
}

func (s *AnalyticsSink) Available() bool {
	return s.repo != nil
}

func (s *AnalyticsSink) Backend() string {
	if s.repo == nil {
		return ""
	}
	return s.backend
}

// Persist inserts one row and reports success. Unavailability, errors and
// any row count other than one are reported as false, never as an error.
func (s *AnalyticsSink) Persist(ctx context.Context, record analysis.AnalyticsRecord) bool {
	if s.repo == nil {
		return false
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.repo.Insert(ctx, record)
	if err == nil && rows != 1 {
		err = fmt.Errorf("expected 1 row affected, got %d", rows)
	}
	if err != nil {
		s.logger.Warn("Analytics insert failed",
			zap.String("backend", s.backend),
			zap.Error(err))
		s.failures.SoftFailure(NameAnalytics)
		return false
	}
	return true
}
