package monitoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{ServiceName: "shelfie"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Nil(t, tp.provider)
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracingProvider_Enabled(t *testing.T) {
	// the exporter connects lazily, so no collector is needed
	tp, err := NewTracingProvider(context.Background(), TracingConfig{
		ServiceName:  "shelfie",
		OTLPEndpoint: "localhost:4318",
		SamplingRate: 1,
		Enabled:      true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp.provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tp.Shutdown(ctx)
}
