// Package speech provides the speech synthesis backends and the narration
// strategies (cloud, local engine, console) the fallback chain is built from.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultGoogleEndpoint = "https://texttospeech.googleapis.com/v1"

// ErrMissingAPIKey is returned when the Google synthesizer has no credentials.
var ErrMissingAPIKey = errors.New("speech: google api key is required")

// GoogleSynthesizer calls the Cloud Text-to-Speech REST API
type GoogleSynthesizer struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewGoogleSynthesizer creates a new Cloud Text-to-Speech client
func NewGoogleSynthesizer(apiKey, endpoint string, httpClient *http.Client) (*GoogleSynthesizer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GoogleSynthesizer{
		apiKey:     apiKey,
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}, nil
}

type synthesizeRequest struct {
	Input       synthesisInput `json:"input"`
	Voice       voiceParams    `json:"voice"`
	AudioConfig audioConfig    `json:"audioConfig"`
}

type synthesisInput struct {
	Text string `json:"text"`
}

type voiceParams struct {
	LanguageCode string `json:"languageCode"`
	SSMLGender   string `json:"ssmlGender"`
}

type audioConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
	Error        *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Name returns the backend name
func (s *GoogleSynthesizer) Name() string {
	return "google-tts"
}

// Synthesize renders text to MP3 with a neutral voice for languageCode
func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	jsonData, err := json.Marshal(synthesizeRequest{
		Input:       synthesisInput{Text: text},
		Voice:       voiceParams{LanguageCode: languageCode, SSMLGender: "NEUTRAL"},
		AudioConfig: audioConfig{AudioEncoding: "MP3"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/text:synthesize", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed synthesizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("google tts API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("google tts returned empty audio")
	}
	return audio, nil
}
