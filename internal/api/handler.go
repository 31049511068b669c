// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/memodeck/backend/internal/auth"
	"github.com/memodeck/backend/internal/scheduler"
	"github.com/memodeck/backend/internal/service"
	"github.com/memodeck/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers. Instead of
// relying on package-level globals, every handler method receives its
// dependencies through this struct.
type Handler struct {
	store      *store.SQLiteStore
	scheduler  *scheduler.Scheduler
	generation *service.GenerationService
	auth       *auth.Service
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s *store.SQLiteStore, sched *scheduler.Scheduler, gen *service.GenerationService, authSvc *auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		store:      s,
		scheduler:  sched,
		generation: gen,
		auth:       authSvc,
		logger:     logger,
	}
}

// Validator is implemented by request types that check their own fields
// after decoding.
type Validator interface {
	Validate() error
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v. On failure it writes a 400
// and returns false (caller should return).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// decodeAndValidate decodes the request body and runs the type's own
// validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v Validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the
// appropriate HTTP response. Returns true if an error was handled (caller
// should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// requireMembership loads the folder and checks that userID is a member.
// Writes the error response and returns false when access is denied.
func (h *Handler) requireMembership(w http.ResponseWriter, r *http.Request, folderID, userID string) bool {
	f, err := h.store.GetFolder(r.Context(), folderID)
	if h.handleStoreError(w, err, "folder") {
		return false
	}
	if !f.IsMember(userID) {
		respondError(w, http.StatusForbidden, "access denied")
		return false
	}
	return true
}
