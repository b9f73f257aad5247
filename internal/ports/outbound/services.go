package outbound

import (
	"context"

	"github.com/shelfie/shelfie/internal/domain/analysis"
)

// GenerationRequest is a single multimodal prompt.
type GenerationRequest struct {
	Prompt string
	// ImagePNG is the base64 PNG transport string; empty for text-only prompts.
	ImagePNG string
}

// Candidate is one alternative reply, split into text parts as the provider returned them.
type Candidate struct {
	Parts []string
}

// GenerationResponse is the provider reply before normalization.
type GenerationResponse struct {
	Candidates []Candidate
	// Usage is nil when the provider reported no token counts.
	Usage *analysis.UsageMetadata
	Model string
}

// GenerativeModel performs exactly one provider call per Generate.
type GenerativeModel interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
}

// ObjectAnnotation is a localized object as reported by a vision backend.
type ObjectAnnotation struct {
	Name     string
	Score    float64
	Vertices []analysis.Vertex
}

// LabelAnnotation is an image-level label.
type LabelAnnotation struct {
	Description string
	Score       float64
}

// ImageAnnotations is the unfiltered vision response.
type ImageAnnotations struct {
	Objects []ObjectAnnotation
	Labels  []LabelAnnotation
}

// VisionAnnotator runs object localization and label detection on a PNG image.
type VisionAnnotator interface {
	Name() string
	Annotate(ctx context.Context, png []byte) (*ImageAnnotations, error)
}

// TextTranslator translates plain text into a target language tag.
type TextTranslator interface {
	Name() string
	Translate(ctx context.Context, text, target string) (string, error)
}

// SpeechSynthesizer renders text to MP3 audio.
type SpeechSynthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
}

// SpeechStrategy is one link of the narration fallback chain.
type SpeechStrategy interface {
	Name() string
	Speak(ctx context.Context, text, languageCode string) error
}
