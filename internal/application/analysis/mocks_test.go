package analysis

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// MockGenerativeModel is a mock implementation of outbound.GenerativeModel
type MockGenerativeModel struct {
	mock.Mock
}

func (m *MockGenerativeModel) Name() string { return "mock-ai" }

func (m *MockGenerativeModel) Generate(ctx context.Context, req outbound.GenerationRequest) (*outbound.GenerationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.GenerationResponse), args.Error(1)
}

// blockingModel waits for the context to expire
type blockingModel struct{}

func (blockingModel) Name() string { return "slow-ai" }

func (blockingModel) Generate(ctx context.Context, _ outbound.GenerationRequest) (*outbound.GenerationResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type MockAnnotator struct {
	mock.Mock
}

func (m *MockAnnotator) Name() string { return "mock-vision" }

func (m *MockAnnotator) Annotate(ctx context.Context, png []byte) (*outbound.ImageAnnotations, error) {
	args := m.Called(ctx, png)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.ImageAnnotations), args.Error(1)
}

type MockTextTranslator struct {
	mock.Mock
}

func (m *MockTextTranslator) Name() string { return "mock-translate" }

func (m *MockTextTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	args := m.Called(ctx, text, target)
	return args.String(0), args.Error(1)
}

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Insert(ctx context.Context, record analysis.AnalyticsRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type recordingStrategy struct {
	name   string
	err    error
	spoken []string
	langs  []string
}

func (r *recordingStrategy) Name() string { return r.name }

func (r *recordingStrategy) Speak(_ context.Context, text, languageCode string) error {
	r.spoken = append(r.spoken, text)
	r.langs = append(r.langs, languageCode)
	return r.err
}

// recordingMetrics captures what the service reports
type recordingMetrics struct {
	mu        sync.Mutex
	pipelines []string
	requests  []string
	tokens    []bool
	narrated  []string
}

func (r *recordingMetrics) PipelineCompleted(kind, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelines = append(r.pipelines, kind+":"+outcome)
}

func (r *recordingMetrics) AIRequest(provider, _, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, provider+":"+status)
}

func (r *recordingMetrics) AITokens(_ string, _, _ int, estimated bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, estimated)
}

func (r *recordingMetrics) Narrated(strategy string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.narrated = append(r.narrated, strategy)
}

func textResponse(parts ...string) *outbound.GenerationResponse {
	return &outbound.GenerationResponse{
		Candidates: []outbound.Candidate{{Parts: parts}},
		Model:      "mock-model",
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
