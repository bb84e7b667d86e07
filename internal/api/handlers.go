package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-studio/internal/campaign"
	"github.com/ignite/campaign-studio/internal/pkg/apperr"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
	"github.com/ignite/campaign-studio/internal/product"
)

// GenerationPipeline runs the URL-to-templates flow.
type GenerationPipeline interface {
	Run(ctx context.Context, productURL string) (*product.GenerationResult, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	pipeline  GenerationPipeline
	campaigns *campaign.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(pipeline GenerationPipeline, campaigns *campaign.Service) *Handlers {
	return &Handlers{pipeline: pipeline, campaigns: campaigns}
}

// HealthCheck returns server health status
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GenerateTemplates runs the scrape-extract-rank-generate pipeline for a
// product URL.
func (h *Handlers) GenerateTemplates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.KindInvalidInput, "invalid JSON body"))
		return
	}

	result, err := h.pipeline.Run(r.Context(), req.URL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// PublishCampaign validates and forwards a campaign to the ESP backend.
func (h *Handlers) PublishCampaign(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	requesterID := r.Header.Get("X-User-ID")

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.New(apperr.KindInvalidInput, "invalid JSON body"))
		return
	}

	result, err := h.campaigns.Publish(r.Context(), requesterID, clientID, body)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, result)
}

// FetchMetrics retrieves delivery statistics for published newsletters.
func (h *Handlers) FetchMetrics(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	requesterID := r.Header.Get("X-User-ID")

	var req struct {
		NewsletterIDs []string `json:"newsletterIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.KindInvalidInput, "invalid JSON body"))
		return
	}

	result, err := h.campaigns.FetchMetrics(r.Context(), requesterID, clientID, req.NewsletterIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// respondError maps error kinds onto HTTP statuses. Upstream failures
// (ESP backend, AI provider, page fetch) surface as 502 so callers can
// tell a bad request from an unavailable dependency.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput, apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindFetch, apperr.KindBackend:
		status = http.StatusBadGateway
	case apperr.KindConfiguration:
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		logger.Error("request failed", "status", status, "error", err)
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
