package analysis

import (
	"context"
	stderrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
	"github.com/shelfie/shelfie/pkg/errors"
)

const tracerName = "github.com/shelfie/shelfie/internal/application/analysis"

// charsPerToken is the heuristic used when a provider reports no usage.
const charsPerToken = 4

// Generation is the normalized reply of one generative call.
type Generation struct {
	Text  string
	Usage analysis.UsageMetadata
	Model string
}

// Generator executes exactly one generative call per request and normalizes the reply
type Generator struct {
	model   outbound.GenerativeModel
	timeout time.Duration
	metrics Metrics
	logger  *zap.Logger
}

// NewGenerator creates a generator over model. timeout bounds each call.
func NewGenerator(model outbound.GenerativeModel, timeout time.Duration, metrics Metrics, logger *zap.Logger) *Generator {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Generator{
		model:   model,
		timeout: timeout,
		metrics: metrics,
		logger:  logger.Named("generator"),
	}
}

// Provider returns the configured provider name
func (g *Generator) Provider() string {
	return g.model.Name()
}

// Generate sends prompt, and imagePNG when non-empty, to the model. There is
// no retry: a failed call is reported once as a GenerationError, a deadline
// as a TimeoutError, and a reply without text as a MalformedResponseError.
func (g *Generator) Generate(ctx context.Context, prompt, imagePNG string) (*Generation, error) {
	provider := g.model.Name()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "generator.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", provider),
		attribute.Int("ai.prompt_length", len(prompt)),
		attribute.Bool("ai.has_image", imagePNG != ""),
	)

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.model.Generate(callCtx, outbound.GenerationRequest{
		Prompt:   prompt,
		ImagePNG: imagePNG,
	})
	elapsed := time.Since(start)

	if err != nil {
		var appErr *errors.AppError
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(callCtx.Err(), context.DeadlineExceeded) {
			g.metrics.AIRequest(provider, "", "timeout", elapsed)
			appErr = errors.NewTimeoutError(provider+" generate", g.timeout, err)
		} else {
			g.metrics.AIRequest(provider, "", "error", elapsed)
			appErr = errors.NewGenerationError(provider, err)
		}
		g.logger.Error("Generative call failed",
			zap.String("provider", provider),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		span.RecordError(appErr)
		span.SetStatus(codes.Error, appErr.Error())
		return nil, appErr
	}

	text, ok := joinParts(resp)
	if !ok {
		g.metrics.AIRequest(provider, resp.Model, "malformed", elapsed)
		appErr := errors.NewMalformedResponseError(provider, "response contained no candidates or no text parts")
		span.RecordError(appErr)
		span.SetStatus(codes.Error, appErr.Error())
		return nil, appErr
	}

	usage := estimateUsage(prompt, text)
	if resp.Usage != nil {
		usage = *resp.Usage
		usage.Estimated = false
	}

	g.metrics.AIRequest(provider, resp.Model, "success", elapsed)
	g.metrics.AITokens(provider, usage.InputTokens, usage.OutputTokens, usage.Estimated)

	g.logger.Info("Generative call completed",
		zap.String("provider", provider),
		zap.String("model", resp.Model),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
		zap.Int("total_tokens", usage.TotalTokens),
		zap.Bool("estimated", usage.Estimated),
		zap.Duration("elapsed", elapsed))

	span.SetAttributes(
		attribute.String("ai.model", resp.Model),
		attribute.Int("ai.total_tokens", usage.TotalTokens),
	)

	return &Generation{Text: text, Usage: usage, Model: resp.Model}, nil
}

// joinParts concatenates every part of every candidate in order.
func joinParts(resp *outbound.GenerationResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	var b strings.Builder
	parts := 0
	for _, c := range resp.Candidates {
		for _, p := range c.Parts {
			b.WriteString(p)
			parts++
		}
	}
	if parts == 0 {
		return "", false
	}
	return b.String(), true
}

func estimateUsage(prompt, reply string) analysis.UsageMetadata {
	in := utf8.RuneCountInString(prompt) / charsPerToken
	out := utf8.RuneCountInString(reply) / charsPerToken
	return analysis.UsageMetadata{
		InputTokens:  in,
		OutputTokens: out,
		TotalTokens:  in + out,
		Estimated:    true,
	}
}
