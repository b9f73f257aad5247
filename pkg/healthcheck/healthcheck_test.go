package healthcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okPing(context.Context) error { return nil }

func failPing(context.Context) error { return errors.New("connection refused") }

func TestNew(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	assert.Equal(t, "1.0.0", hc.version)
	assert.NotNil(t, hc.checkers)
	assert.Equal(t, 5*time.Second, hc.cacheTTL)
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	response := New("1.0.0", zap.NewNop()).Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_AggregatesStatus(t *testing.T) {
	tests := []struct {
		name     string
		checkers map[string]Checker
		want     Status
	}{
		{"all healthy", map[string]Checker{"analytics": NewPingChecker(okPing, true)}, StatusHealthy},
		{"optional failure degrades", map[string]Checker{
			"analytics": NewPingChecker(failPing, true),
			"history":   NewPingChecker(okPing, false),
		}, StatusDegraded},
		{"required failure is unhealthy", map[string]Checker{
			"analytics": NewPingChecker(failPing, true),
			"history":   NewPingChecker(failPing, false),
		}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New("1.0.0", zap.NewNop())
			for name, c := range tt.checkers {
				hc.Register(name, c)
			}

			response := hc.Check(context.Background())
			assert.Equal(t, tt.want, response.Status)
			require.Len(t, response.Checks, len(tt.checkers))
			assert.Equal(t, "analytics", response.Checks[0].Name)
		})
	}
}

func TestHealthCheck_CachesResponses(t *testing.T) {
	calls := 0
	hc := New("1.0.0", zap.NewNop())
	hc.Register("counter", NewPingChecker(func(context.Context) error {
		calls++
		return nil
	}, false))

	hc.Check(context.Background())
	hc.Check(context.Background())
	assert.Equal(t, 1, calls)

	hc.SetCacheTTL(0)
	hc.Check(context.Background())
	assert.Equal(t, 2, calls)
}

func TestHealthCheck_RespectsCallerDeadline(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.Register("slow", NewPingChecker(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, true))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	response := hc.Check(ctx)
	require.Len(t, response.Checks, 1)
	assert.Equal(t, StatusDegraded, response.Status)
	assert.Contains(t, response.Checks[0].Message, "deadline exceeded")
}
