package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/memodeck/backend/internal/domain/user"
	"github.com/memodeck/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /auth/register
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	u := user.New(strings.ToLower(strings.TrimSpace(req.Email)), hash)
	if err := h.store.SaveUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "email already registered")
			return
		}
		h.logger.Error("failed to save user", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	token, err := h.auth.IssueToken(u.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

// POST /auth/login
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !h.auth.CheckPassword(u.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.auth.IssueToken(u.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}
