// Package translate provides machine translation backends
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const defaultGoogleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// ErrMissingAPIKey is returned when the Google client has no credentials.
var ErrMissingAPIKey = errors.New("translate: google api key is required")

// GoogleClient calls the Cloud Translation v2 REST API
type GoogleClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewGoogleClient creates a new Cloud Translation client
func NewGoogleClient(apiKey, endpoint string, httpClient *http.Client) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GoogleClient{apiKey: apiKey, endpoint: endpoint, httpClient: httpClient}, nil
}

type translateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Source string   `json:"source,omitempty"`
	Format string   `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Name returns the backend name
func (c *GoogleClient) Name() string {
	return "google-translate"
}

// Translate translates text into target. Plain-text format keeps markdown intact.
func (c *GoogleClient) Translate(ctx context.Context, text, target string) (string, error) {
	jsonData, err := json.Marshal(translateRequest{
		Q:      []string{text},
		Target: target,
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("google translate API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Data.Translations) == 0 {
		return "", fmt.Errorf("google translate returned no translations")
	}

	return parsed.Data.Translations[0].TranslatedText, nil
}
