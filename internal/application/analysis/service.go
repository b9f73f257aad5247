// Package analysis provides the application layer for meal analysis and
// meal suggestions. It sequences the optional capabilities around a single
// generative call and normalizes their combined output.
package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/application/capability"
	"github.com/shelfie/shelfie/internal/application/history"
	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/infrastructure/imagecodec"
	"github.com/shelfie/shelfie/internal/ports/inbound"
	"github.com/shelfie/shelfie/pkg/errors"
)

// Metrics receives pipeline and provider measurements. *monitoring.MetricsCollector satisfies it.
type Metrics interface {
	PipelineCompleted(kind, outcome string, duration time.Duration)
	AIRequest(provider, model, status string, duration time.Duration)
	AITokens(provider string, input, output int, estimated bool)
	Narrated(strategy string)
}

type nopMetrics struct{}

func (nopMetrics) PipelineCompleted(string, string, time.Duration) {}
func (nopMetrics) AIRequest(string, string, string, time.Duration) {}
func (nopMetrics) AITokens(string, int, int, bool)                 {}
func (nopMetrics) Narrated(string)                                 {}

// Warning messages surfaced on AnalysisResult.Warnings.
const (
	WarningPersistFailed = "analysis could not be saved to the analytics store"
	WarningNarrateFailed = "narration failed on every speech strategy"
)

// languageInput validates the requested output language.
type languageInput struct {
	Language string `validate:"required,bcp47_language_tag"`
}

// narrateInput validates a standalone narration request.
type narrateInput struct {
	Text     string `validate:"required"`
	Language string `validate:"required,bcp47_language_tag"`
}

// Dependencies groups the collaborators of the service
type Dependencies struct {
	Generator  *Generator
	Detector   *capability.Detector
	Translator *capability.Translator
	Narrator   *capability.Narrator
	Sink       *capability.AnalyticsSink
	History    *history.Service
	Status     capability.Status
	Metrics    Metrics
	Logger     *zap.Logger
}

// Service implements the meal analysis use cases
type Service struct {
	generator  *Generator
	detector   *capability.Detector
	translator *capability.Translator
	narrator   *capability.Narrator
	sink       *capability.AnalyticsSink
	history    *history.Service
	status     capability.Status
	metrics    Metrics
	validate   *validator.Validate
	tracer     trace.Tracer
	logger     *zap.Logger
	now        func() time.Time
}

var _ inbound.MealService = (*Service)(nil)

// NewService creates a new analysis service
func NewService(deps Dependencies) *Service {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		generator:  deps.Generator,
		detector:   deps.Detector,
		translator: deps.Translator,
		narrator:   deps.Narrator,
		sink:       deps.Sink,
		history:    deps.History,
		status:     deps.Status.Clone(),
		metrics:    metrics,
		validate:   validator.New(),
		tracer:     otel.Tracer(tracerName),
		logger:     deps.Logger.Named("analysis-service"),
		now:        time.Now,
	}
}

// AnalyzeMeal runs the nutritional analysis pipeline on an image
func (s *Service) AnalyzeMeal(ctx context.Context, req analysis.AnalysisRequest) (result *analysis.AnalysisResult, err error) {
	start := time.Now()
	requestID := uuid.New().String()
	lang := req.Language()

	ctx, span := s.tracer.Start(ctx, "analysis.AnalyzeMeal", trace.WithAttributes(
		attribute.String("request.id", requestID),
		attribute.String("request.language", lang),
		attribute.Bool("request.use_detection", req.UseDetection),
	))
	defer func() { s.finish(span, analysis.KindMealAnalysis, start, err) }()

	if !req.HasImage() {
		return nil, errors.NewValidationError("an image is required for meal analysis")
	}
	if err := s.validateLanguage(lang); err != nil {
		return nil, err
	}

	_, pngBytes, transport, err := imagecodec.DecodeAndEncode(req.Image)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Starting meal analysis",
		zap.String("request_id", requestID),
		zap.String("language", lang),
		zap.Bool("use_detection", req.UseDetection),
		zap.Int("image_bytes", len(req.Image)))

	var detection *analysis.DetectionResult
	if req.UseDetection {
		detection = s.detector.Detect(ctx, pngBytes)
	}
	var labels []string
	if detection != nil {
		labels = detection.Labels
	}

	gen, err := s.generator.Generate(ctx, analysis.MealAnalysisPrompt(labels), transport)
	if err != nil {
		return nil, err
	}

	fields := analysis.Extract(gen.Text)
	result = &analysis.AnalysisResult{
		RequestID:        requestID,
		Kind:             analysis.KindMealAnalysis,
		Language:         lang,
		RawText:          gen.Text,
		TranslatedText:   s.translator.Translate(ctx, gen.Text, lang),
		StructuredFields: &fields,
		Detection:        detection,
		Usage:            gen.Usage,
	}

	if req.Persist {
		record := analysis.NewAnalyticsRecord(result.RawText, fields, s.now())
		result.Persisted = s.sink.Persist(ctx, record)
		if !result.Persisted {
			result.AddWarning(WarningPersistFailed)
		}
	}

	if req.Narrate {
		s.narrateInto(ctx, result)
	}

	result.CompletedAt = s.now()
	s.history.Record(ctx, result)

	s.logger.Info("Meal analysis completed",
		zap.String("request_id", requestID),
		zap.Float64("calories", fields.Calories),
		zap.String("health_rating", fields.HealthRating),
		zap.Bool("detection_used", detection != nil),
		zap.Bool("persisted", result.Persisted),
		zap.Int("total_tokens", gen.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// SuggestMeals proposes meals from exactly one of an image or an ingredient list
func (s *Service) SuggestMeals(ctx context.Context, req analysis.AnalysisRequest) (result *analysis.AnalysisResult, err error) {
	start := time.Now()
	requestID := uuid.New().String()
	lang := req.Language()
	ingredients := strings.TrimSpace(req.IngredientsText)

	kind := analysis.KindSuggestionFromText
	if req.HasImage() {
		kind = analysis.KindSuggestionFromImage
	}

	ctx, span := s.tracer.Start(ctx, "analysis.SuggestMeals", trace.WithAttributes(
		attribute.String("request.id", requestID),
		attribute.String("request.language", lang),
		attribute.String("request.kind", string(kind)),
	))
	defer func() { s.finish(span, kind, start, err) }()

	if req.HasImage() == (ingredients != "") {
		return nil, errors.NewValidationError("exactly one of image or ingredients must be provided")
	}
	if err := s.validateLanguage(lang); err != nil {
		return nil, err
	}

	var prompt, transport string
	if req.HasImage() {
		_, _, transport, err = imagecodec.DecodeAndEncode(req.Image)
		if err != nil {
			return nil, err
		}
		prompt = analysis.MealSuggestionImagePrompt()
	} else {
		prompt = analysis.MealSuggestionTextPrompt(ingredients)
	}

	s.logger.Info("Starting meal suggestion",
		zap.String("request_id", requestID),
		zap.String("kind", string(kind)),
		zap.String("language", lang))

	gen, err := s.generator.Generate(ctx, prompt, transport)
	if err != nil {
		return nil, err
	}

	result = &analysis.AnalysisResult{
		RequestID:      requestID,
		Kind:           kind,
		Language:       lang,
		RawText:        gen.Text,
		TranslatedText: s.translator.Translate(ctx, gen.Text, lang),
		Usage:          gen.Usage,
	}

	if req.Narrate {
		s.narrateInto(ctx, result)
	}

	result.CompletedAt = s.now()
	s.history.Record(ctx, result)

	s.logger.Info("Meal suggestion completed",
		zap.String("request_id", requestID),
		zap.Int("total_tokens", gen.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// Narrate speaks text in lang and returns the strategy that succeeded, or ""
func (s *Service) Narrate(ctx context.Context, text, lang string) string {
	ctx, span := s.tracer.Start(ctx, "analysis.Narrate")
	defer span.End()

	strategy := s.narrator.Speak(ctx, text, analysis.SpeechLanguageCode(lang))
	span.SetAttributes(attribute.String("speech.strategy", strategy))
	if strategy != "" {
		s.metrics.Narrated(strategy)
	}
	return strategy
}

// ValidateNarration checks a standalone narration request
func (s *Service) ValidateNarration(text, lang string) error {
	input := narrateInput{Text: strings.TrimSpace(text), Language: analysis.NormalizeLanguage(lang)}
	if err := s.validate.Struct(input); err != nil {
		return validationError(err)
	}
	return nil
}

// Capabilities returns the startup capability snapshot
func (s *Service) Capabilities() capability.Status {
	return s.status.Clone()
}

// History returns the most recent entries of kind
func (s *Service) History(ctx context.Context, kind analysis.HistoryKind) ([]analysis.HistoryEntry, error) {
	return s.history.Recent(ctx, kind)
}

func (s *Service) narrateInto(ctx context.Context, result *analysis.AnalysisResult) {
	result.NarratedBy = s.Narrate(ctx, result.TranslatedText, result.Language)
	if result.NarratedBy == "" {
		result.AddWarning(WarningNarrateFailed)
	}
}

func (s *Service) validateLanguage(lang string) error {
	if err := s.validate.Struct(languageInput{Language: lang}); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Service) finish(span trace.Span, kind analysis.Kind, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(string(errors.GetCode(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("Pipeline failed",
			zap.String("kind", string(kind)),
			zap.String("code", string(errors.GetCode(err))),
			zap.Error(err))
	}
	s.metrics.PipelineCompleted(string(kind), outcome, time.Since(start))
	span.End()
}

func validationError(err error) *errors.AppError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError(err.Error())
	}
	out := make([]errors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, errors.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return errors.NewValidationErrors(out)
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "bcp47_language_tag":
		return field + " must be a valid BCP-47 language tag"
	default:
		return field + " is invalid"
	}
}
