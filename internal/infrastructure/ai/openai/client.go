// Package openai provides the OpenAI chat completion integration for meal analysis
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

const (
	// ProviderName identifies this provider in logs, metrics and errors.
	ProviderName = "openai"
	defaultModel = "gpt-4o-mini"
)

// ErrMissingAPIKey is returned when the client is constructed without credentials.
var ErrMissingAPIKey = errors.New("openai: api key is required")

// Config configures the client
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// Client implements outbound.GenerativeModel using the OpenAI API
type Client struct {
	api    *goopenai.Client
	config Config
	logger *zap.Logger
}

// NewClient creates a new OpenAI client. BaseURL may point at any
// OpenAI-compatible endpoint.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	apiConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}

	logger.Info("OpenAI client initialized", zap.String("model", config.Model))

	return &Client{
		api:    goopenai.NewClientWithConfig(apiConfig),
		config: config,
		logger: logger.Named("openai"),
	}, nil
}

// Name returns the provider name
func (c *Client) Name() string {
	return ProviderName
}

// Model returns the configured model
func (c *Client) Model() string {
	return c.config.Model
}

// Generate performs exactly one chat completion call. The image travels as a data URL.
func (c *Client) Generate(ctx context.Context, req outbound.GenerationRequest) (*outbound.GenerationResponse, error) {
	message := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser}
	if req.ImagePNG == "" {
		message.Content = req.Prompt
	} else {
		message.MultiContent = []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: req.Prompt},
			{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL:    "data:image/png;base64," + req.ImagePNG,
					Detail: goopenai.ImageURLDetailAuto,
				},
			},
		}
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    []goopenai.ChatCompletionMessage{message},
		Temperature: float32(c.config.Temperature),
	}
	// Reasoning models reject max_tokens
	if isReasoningModel(c.config.Model) {
		chatReq.MaxCompletionTokens = c.config.MaxTokens
		chatReq.Temperature = 0
	} else {
		chatReq.MaxTokens = c.config.MaxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	out := &outbound.GenerationResponse{Model: resp.Model}
	if out.Model == "" {
		out.Model = c.config.Model
	}
	for _, choice := range resp.Choices {
		var parts []string
		if choice.Message.Content != "" {
			parts = append(parts, choice.Message.Content)
		}
		for _, p := range choice.Message.MultiContent {
			if p.Type == goopenai.ChatMessagePartTypeText && p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
		out.Candidates = append(out.Candidates, outbound.Candidate{Parts: parts})
	}

	if resp.Usage.TotalTokens > 0 {
		out.Usage = &analysis.UsageMetadata{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}

	c.logger.Debug("OpenAI response received",
		zap.Int("choices", len(out.Candidates)),
		zap.Bool("usage_reported", out.Usage != nil))

	return out, nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
