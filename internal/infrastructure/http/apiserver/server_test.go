package apiserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shelfie/shelfie/internal/application/capability"
	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/infrastructure/config"
	"github.com/shelfie/shelfie/internal/infrastructure/monitoring"
	"github.com/shelfie/shelfie/pkg/healthcheck"
)

// stubService answers the read-only endpoints
type stubService struct{}

func (stubService) AnalyzeMeal(context.Context, analysis.AnalysisRequest) (*analysis.AnalysisResult, error) {
	return &analysis.AnalysisResult{Kind: analysis.KindMealAnalysis}, nil
}

func (stubService) SuggestMeals(context.Context, analysis.AnalysisRequest) (*analysis.AnalysisResult, error) {
	return &analysis.AnalysisResult{Kind: analysis.KindSuggestionFromText}, nil
}

func (stubService) Narrate(context.Context, string, string) string { return "console" }

func (stubService) ValidateNarration(string, string) error { return nil }

func (stubService) Capabilities() capability.Status {
	return capability.Status{GenerativeProvider: "gemini", SpeechChain: []string{"console"}}
}

func (stubService) History(context.Context, analysis.HistoryKind) ([]analysis.HistoryEntry, error) {
	return []analysis.HistoryEntry{}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Version = "1.2.3"
	cfg.Server.Port = 0
	cfg.Monitoring.EnableMetrics = true
	return cfg
}

func TestRoutes(t *testing.T) {
	logger := zaptest.NewLogger(t)
	srv := NewAPIServer(testConfig(), logger, stubService{}, monitoring.NewMetricsCollector(logger), healthcheck.New("1.2.3", logger))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/capabilities", http.StatusOK},
		{http.MethodGet, "/api/v1/history?kind=suggestion", http.StatusOK},
		{http.MethodGet, "/api/v1/openapi.yaml", http.StatusOK},
		{http.MethodGet, "/api/v1/docs", http.StatusOK},
		{http.MethodGet, "/api/v1/meals/analyze", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		})
	}
}

func TestRoutes_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Monitoring.EnableMetrics = false
	srv := NewAPIServer(cfg, zaptest.NewLogger(t), stubService{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
