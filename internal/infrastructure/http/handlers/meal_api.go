// Package handlers provides HTTP handlers for the meal analysis API
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/infrastructure/imagecodec"
	"github.com/shelfie/shelfie/internal/ports/inbound"
	"github.com/shelfie/shelfie/pkg/errors"
	"github.com/shelfie/shelfie/pkg/healthcheck"
)

// MealAPIHandlers handles meal analysis API requests
type MealAPIHandlers struct {
	service        inbound.MealService
	maxUploadBytes int64
	version        string
	health         *healthcheck.HealthCheck
	logger         *zap.Logger
}

// NewMealAPIHandlers creates a new meal API handlers instance
func NewMealAPIHandlers(service inbound.MealService, maxUploadBytes int64, version string, logger *zap.Logger) *MealAPIHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = imagecodec.MaxUploadBytes
	}
	return &MealAPIHandlers{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		version:        version,
		logger:         logger.Named("meal-api"),
	}
}

// WithHealthCheck adds dependency checks to the health endpoint
func (h *MealAPIHandlers) WithHealthCheck(hc *healthcheck.HealthCheck) *MealAPIHandlers {
	h.health = hc
	return h
}

// NarrateRequest represents a standalone narration request
type NarrateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// NarrateResponse reports which strategy spoke
type NarrateResponse struct {
	NarratedBy string `json:"narrated_by"`
}

// HistoryResponse wraps history entries
type HistoryResponse struct {
	Kind    analysis.HistoryKind    `json:"kind"`
	Entries []analysis.HistoryEntry `json:"entries"`
}

// AnalyzeMeal handles POST /api/v1/meals/analyze
func (h *MealAPIHandlers) AnalyzeMeal(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	image, err := h.readImage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(image) == 0 {
		h.writeError(w, r, errors.NewValidationError("image file is required"))
		return
	}

	req := analysis.AnalysisRequest{
		Image:          image,
		UseDetection:   formBool(r, "use_detection"),
		TargetLanguage: r.FormValue("language"),
		Narrate:        formBool(r, "narrate"),
		Persist:        formBool(r, "persist"),
	}

	result, err := h.service.AnalyzeMeal(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// SuggestMeals handles POST /api/v1/meals/suggest
func (h *MealAPIHandlers) SuggestMeals(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	image, err := h.readImage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	req := analysis.AnalysisRequest{
		Image:           image,
		IngredientsText: r.FormValue("ingredients"),
		TargetLanguage:  r.FormValue("language"),
		Narrate:         formBool(r, "narrate"),
	}

	result, err := h.service.SuggestMeals(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Narrate handles POST /api/v1/narrate
func (h *MealAPIHandlers) Narrate(w http.ResponseWriter, r *http.Request) {
	var req NarrateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if err := h.service.ValidateNarration(req.Text, req.Language); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, NarrateResponse{
		NarratedBy: h.service.Narrate(r.Context(), req.Text, req.Language),
	})
}

// Capabilities handles GET /api/v1/capabilities
func (h *MealAPIHandlers) Capabilities(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Capabilities())
}

// History handles GET /api/v1/history
func (h *MealAPIHandlers) History(w http.ResponseWriter, r *http.Request) {
	kind := analysis.HistoryKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = analysis.HistoryAnalysis
	}

	entries, err := h.service.History(r.Context(), kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, HistoryResponse{Kind: kind, Entries: entries})
}

// HealthCheck handles GET /health
func (h *MealAPIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := healthcheck.StatusHealthy
	checks := []healthcheck.Check{}
	if h.health != nil {
		report := h.health.Check(r.Context())
		status = report.Status
		checks = report.Checks
	}

	code := http.StatusOK
	if status == healthcheck.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, map[string]interface{}{
		"status":       status,
		"service":      "shelfie-api",
		"version":      h.version,
		"timestamp":    time.Now().Unix(),
		"checks":       checks,
		"capabilities": h.service.Capabilities(),
	})
}

func (h *MealAPIHandlers) parseForm(w http.ResponseWriter, r *http.Request) error {
	// multipart overhead on top of the image itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return errors.NewBadRequestError("Invalid form payload")
		}
		return nil
	}
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return errors.NewBadRequestError("Invalid multipart payload").WithCause(err)
	}
	return nil
}

// readImage returns the uploaded image, or nil when no file was sent.
func (h *MealAPIHandlers) readImage(r *http.Request) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid image upload").WithCause(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, errors.NewBadRequestError("Failed to read image upload").WithCause(err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, errors.NewValidationError("image exceeds the maximum upload size")
	}
	return data, nil
}

func formBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.FormValue(key)))
	return err == nil && v
}

// writeJSON writes a JSON response
func (h *MealAPIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError renders err in the standard error envelope
func (h *MealAPIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "An unexpected error occurred")
	status := appErr.StatusCode()
	requestID := chimiddleware.GetReqID(r.Context())

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(err))
	} else {
		h.logger.Info("Request rejected",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.String("details", appErr.Details))
	}

	h.writeJSON(w, status, errors.ToErrorResponse(appErr, requestID))
}
