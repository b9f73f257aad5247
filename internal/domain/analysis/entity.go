// Package analysis defines the meal-analysis domain: requests, results,
// the prompt contract and the nutrition field extractor.
package analysis

import (
	"time"
)

// Kind identifies which pipeline produced a result.
type Kind string

const (
	KindMealAnalysis        Kind = "meal_analysis"
	KindSuggestionFromImage Kind = "meal_suggestion_image"
	KindSuggestionFromText  Kind = "meal_suggestion_text"
)

// DefaultLanguage is the language the model answers in and the translation no-op target.
const DefaultLanguage = "en"

// AnalysisRequest carries one user action into the orchestrator.
type AnalysisRequest struct {
	Image           []byte
	IngredientsText string
	UseDetection    bool
	TargetLanguage  string
	Narrate         bool
	Persist         bool
}

// HasImage reports whether an image payload was supplied.
func (r AnalysisRequest) HasImage() bool {
	return len(r.Image) > 0
}

// Language returns the normalized target language, never empty.
func (r AnalysisRequest) Language() string {
	return NormalizeLanguage(r.TargetLanguage)
}

// Vertex is one point of a detection polygon, normalized to [0,1] when the
// backend reports normalized coordinates.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DetectedObject is a localized object kept by the detector's food filter.
type DetectedObject struct {
	Name        string   `json:"name"`
	Confidence  float64  `json:"confidence"`
	BoundingBox []Vertex `json:"bounding_box"`
}

// DetectionResult is produced only when detection ran. A nil *DetectionResult
// means detection was not run or failed; empty slices mean it ran and found nothing.
type DetectionResult struct {
	Objects []DetectedObject `json:"objects"`
	Labels  []string         `json:"labels"`
}

// NutritionFields are the structured values mechanically extracted from model text.
type NutritionFields struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	HealthRating string  `json:"health_rating"`
}

// UsageMetadata reports token consumption. Estimated is true when the provider
// gave no telemetry and the character heuristic was applied instead.
type UsageMetadata struct {
	InputTokens  int  `json:"input_tokens"`
	OutputTokens int  `json:"output_tokens"`
	TotalTokens  int  `json:"total_tokens"`
	Estimated    bool `json:"estimated"`
}

// AnalysisResult is the normalized output of both pipelines.
type AnalysisResult struct {
	RequestID        string           `json:"request_id"`
	Kind             Kind             `json:"kind"`
	Language         string           `json:"language"`
	RawText          string           `json:"raw_text"`
	TranslatedText   string           `json:"translated_text"`
	StructuredFields *NutritionFields `json:"structured_fields,omitempty"`
	Detection        *DetectionResult `json:"detection,omitempty"`
	Usage            UsageMetadata    `json:"usage"`
	Persisted        bool             `json:"persisted"`
	NarratedBy       string           `json:"narrated_by,omitempty"`
	Warnings         []string         `json:"warnings,omitempty"`
	CompletedAt      time.Time        `json:"completed_at"`
}

// AddWarning records a soft failure the caller should see but not fail on.
func (r *AnalysisResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AnalyticsRecord is the flat row handed to the analytics sink.
type AnalyticsRecord struct {
	Timestamp    string
	AnalysisText string
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	HealthRating string
}

// NewAnalyticsRecord builds the row for a finished meal analysis.
func NewAnalyticsRecord(rawText string, fields NutritionFields, at time.Time) AnalyticsRecord {
	return AnalyticsRecord{
		Timestamp:    at.Format(time.RFC3339Nano),
		AnalysisText: rawText,
		Calories:     fields.Calories,
		Protein:      fields.Protein,
		Carbs:        fields.Carbs,
		Fat:          fields.Fat,
		HealthRating: fields.HealthRating,
	}
}
