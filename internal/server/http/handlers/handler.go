// Package handlers maps the HTTP surface onto the audio service.
// Handlers parse and validate request shape, call the service, and
// serialize responses; all business sequencing lives in the service.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/starfox1230/memorize/internal/common"
	"github.com/starfox1230/memorize/internal/logging"
	"github.com/starfox1230/memorize/internal/server/models"
)

// AudioService is the service contract the handlers consume.
type AudioService interface {
	CreateFromText(ctx context.Context, user, title, text, voice string) (*models.AudioItem, error)
	CreateFromUpload(ctx context.Context, user, title, text, audioBase64, mimeType string) (*models.AudioItem, error)
	List(ctx context.Context, user string) ([]*models.AudioItem, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (io.ReadCloser, string, error)
}

// APIHandler bundles the route handlers with their dependencies.
type APIHandler struct {
	service AudioService
	logger  logging.Logger
}

// NewAPIHandler constructs the handler set.
func NewAPIHandler(service AudioService, logger logging.Logger) *APIHandler {
	return &APIHandler{service: service, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service error onto an HTTP status. Validation
// messages are safe to show; everything else gets the generic message so
// provider detail never leaks to clients. The full error is logged.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, genericMsg string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Audio not found."})
	default:
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: genericMsg})
	}
}
