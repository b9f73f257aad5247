// Package gemini provides the Google Gemini generateContent integration
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
	"go.uber.org/zap"
)

const (
	// ProviderName identifies this provider in logs, metrics and errors.
	ProviderName   = "gemini"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

// ErrMissingAPIKey is returned when the client is constructed without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Config configures the client
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// Client implements outbound.GenerativeModel against the Gemini REST API
type Client struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a new Gemini client. The HTTP client carries no timeout;
// callers bound every call with a context deadline.
func NewClient(config Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger.Info("Gemini client initialized", zap.String("model", config.Model))

	return &Client{
		config: config,
		client: httpClient,
		logger: logger.Named("gemini"),
	}, nil
}

// Gemini API structures
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
	ModelVersion  string         `json:"modelVersion"`
	Error         *apiError      `json:"error"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Name returns the provider name
func (c *Client) Name() string {
	return ProviderName
}

// Model returns the configured model
func (c *Client) Model() string {
	return c.config.Model
}

// Generate performs exactly one generateContent call
func (c *Client) Generate(ctx context.Context, req outbound.GenerationRequest) (*outbound.GenerationResponse, error) {
	parts := []part{{Text: req.Prompt}}
	if req.ImagePNG != "" {
		parts = append(parts, part{InlineData: &inlineData{MimeType: "image/png", Data: req.ImagePNG}})
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxTokens,
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.config.BaseURL, "/"), c.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, truncate(string(respBody), 512))
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("API error %d (%s): %s", parsed.Error.Code, parsed.Error.Status, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, truncate(string(respBody), 512))
	}

	out := &outbound.GenerationResponse{Model: c.config.Model}
	if parsed.ModelVersion != "" {
		out.Model = parsed.ModelVersion
	}
	for _, cand := range parsed.Candidates {
		var texts []string
		if cand.Content != nil {
			for _, p := range cand.Content.Parts {
				if p.Text != "" {
					texts = append(texts, p.Text)
				}
			}
		}
		out.Candidates = append(out.Candidates, outbound.Candidate{Parts: texts})
	}

	if u := parsed.UsageMetadata; u != nil && u.TotalTokenCount > 0 {
		out.Usage = &analysis.UsageMetadata{
			InputTokens:  u.PromptTokenCount,
			OutputTokens: u.CandidatesTokenCount,
			TotalTokens:  u.TotalTokenCount,
		}
	}

	c.logger.Debug("Gemini response received",
		zap.Int("candidates", len(out.Candidates)),
		zap.Bool("usage_reported", out.Usage != nil))

	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
