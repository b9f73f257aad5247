package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/polly/pollyiface"
)

// PollySynthesizer adapts Amazon Polly
type PollySynthesizer struct {
	api   pollyiface.PollyAPI
	voice string
}

// NewPollySynthesizer creates a synthesizer from an AWS session
func NewPollySynthesizer(sess *session.Session, voice string) *PollySynthesizer {
	return NewPollySynthesizerWithAPI(polly.New(sess), voice)
}

// NewPollySynthesizerWithAPI wraps an existing API implementation
func NewPollySynthesizerWithAPI(api pollyiface.PollyAPI, voice string) *PollySynthesizer {
	if voice == "" {
		voice = polly.VoiceIdJoanna
	}
	return &PollySynthesizer{api: api, voice: voice}
}

// Name returns the backend name
func (s *PollySynthesizer) Name() string {
	return "aws-polly"
}

// Synthesize renders text to MP3. The language code only matters for bilingual voices.
func (s *PollySynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	input := &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: aws.String(polly.OutputFormatMp3),
		VoiceId:      aws.String(s.voice),
	}
	if languageCode != "" && len(languageCode) > 2 {
		input.LanguageCode = aws.String(languageCode)
	}

	out, err := s.api.SynthesizeSpeechWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("polly synthesize failed: %w", err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("failed to read polly audio: %w", err)
	}
	return audio, nil
}
