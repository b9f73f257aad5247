package capability

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// MockAnnotator is a mock implementation of outbound.VisionAnnotator
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

// MockTextTranslator is a mock implementation of outbound.TextTranslator
type MockTextTranslator struct {
	mock.Mock
}

func (m *MockTextTranslator) Name() string { return "mock-translate" }

func (m *MockTextTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	args := m.Called(ctx, text, target)
	return args.String(0), args.Error(1)
}

// MockAnalyticsRepository is a mock implementation of outbound.AnalyticsRepository
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

// fakeStrategy succeeds or fails and records invocation order
type fakeStrategy struct {
	name  string
	err   error
	calls *[]string
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Speak(_ context.Context, _ string, _ string) error {
	*f.calls = append(*f.calls, f.name)
	return f.err
}

type countingRecorder struct {
	counts map[string]int
}

func (c *countingRecorder) SoftFailure(capability string) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[capability]++
}
