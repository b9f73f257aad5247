// Package vision provides object localization and label detection backends
package vision

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

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

const defaultGoogleEndpoint = "https://vision.googleapis.com/v1"

// ErrMissingAPIKey is returned when the Google client has no credentials.
var ErrMissingAPIKey = errors.New("vision: google api key is required")

// GoogleClient calls the Cloud Vision images:annotate REST endpoint
type GoogleClient struct {
	apiKey     string
	endpoint   string
	maxResults int
	httpClient *http.Client
}

// NewGoogleClient creates a new Cloud Vision client
func NewGoogleClient(apiKey, endpoint string, maxResults int, httpClient *http.Client) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GoogleClient{
		apiKey:     apiKey,
		endpoint:   strings.TrimRight(endpoint, "/"),
		maxResults: maxResults,
		httpClient: httpClient,
	}, nil
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
	Error     *googleError    `json:"error"`
}

type imageResponse struct {
	LocalizedObjectAnnotations []localizedObject `json:"localizedObjectAnnotations"`
	LabelAnnotations           []labelAnnotation `json:"labelAnnotations"`
	Error                      *googleError      `json:"error"`
}

type localizedObject struct {
	Name         string       `json:"name"`
	Score        float64      `json:"score"`
	BoundingPoly boundingPoly `json:"boundingPoly"`
}

type boundingPoly struct {
	NormalizedVertices []vertex `json:"normalizedVertices"`
}

type vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type labelAnnotation struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type googleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Name returns the backend name
func (c *GoogleClient) Name() string {
	return "google-vision"
}

// Annotate runs OBJECT_LOCALIZATION and LABEL_DETECTION in one request
func (c *GoogleClient) Annotate(ctx context.Context, png []byte) (*outbound.ImageAnnotations, error) {
	reqBody := annotateRequest{
		Requests: []imageRequest{
			{
				Image: imageContent{Content: base64.StdEncoding.EncodeToString(png)},
				Features: []feature{
					{Type: "OBJECT_LOCALIZATION", MaxResults: c.maxResults},
					{Type: "LABEL_DETECTION", MaxResults: c.maxResults},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/images:annotate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var visionResp annotateResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if visionResp.Error != nil {
		return nil, fmt.Errorf("google vision API error: %s", visionResp.Error.Message)
	}
	if len(visionResp.Responses) == 0 {
		return nil, fmt.Errorf("no response from google vision API")
	}

	response := visionResp.Responses[0]
	if response.Error != nil {
		return nil, fmt.Errorf("google vision API error: %s", response.Error.Message)
	}

	out := &outbound.ImageAnnotations{
		Objects: make([]outbound.ObjectAnnotation, 0, len(response.LocalizedObjectAnnotations)),
		Labels:  make([]outbound.LabelAnnotation, 0, len(response.LabelAnnotations)),
	}
	for _, obj := range response.LocalizedObjectAnnotations {
		vertices := make([]analysis.Vertex, 0, len(obj.BoundingPoly.NormalizedVertices))
		for _, v := range obj.BoundingPoly.NormalizedVertices {
			vertices = append(vertices, analysis.Vertex{X: v.X, Y: v.Y})
		}
		out.Objects = append(out.Objects, outbound.ObjectAnnotation{
			Name:     obj.Name,
			Score:    obj.Score,
			Vertices: vertices,
		})
	}
	for _, label := range response.LabelAnnotations {
		out.Labels = append(out.Labels, outbound.LabelAnnotation{
			Description: label.Description,
			Score:       label.Score,
		})
	}

	return out, nil
}
