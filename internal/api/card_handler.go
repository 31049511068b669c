package api

import (
	"errors"
	"net/http"

	"github.com/memodeck/backend/internal/domain/card"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (r *CreateCardRequest) Validate() error {
	if r.Front == "" {
		return errors.New("front is required")
	}
	if r.Back == "" {
		return errors.New("back is required")
	}
	return nil
}

type UpdateCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (r *UpdateCardRequest) Validate() error {
	if r.Front == "" {
		return errors.New("front is required")
	}
	if r.Back == "" {
		return errors.New("back is required")
	}
	return nil
}

type CardResponse struct {
	ID          string `json:"id"`
	FolderID    string `json:"folder_id"`
	Front       string `json:"front"`
	Back        string `json:"back"`
	AIGenerated bool   `json:"ai_generated,omitempty"`
}

func cardResponse(c *card.Card) CardResponse {
	return CardResponse{
		ID:          c.ID,
		FolderID:    c.FolderID,
		Front:       c.Front,
		Back:        c.Back,
		AIGenerated: c.AIGenerated,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /folders/{folderID}/cards
func (h *Handler) listCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID := r.PathValue("folderID")

	if !h.requireMembership(w, r, folderID, UserID(r)) {
		return
	}

	cards, err := h.store.ListCardsByFolder(ctx, folderID)
	if err != nil {
		h.logger.Error("failed to load cards", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load cards")
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}
	respondJSON(w, http.StatusOK, response)
}

// POST /folders/{folderID}/cards
func (h *Handler) createCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID := r.PathValue("folderID")

	if !h.requireMembership(w, r, folderID, UserID(r)) {
		return
	}

	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := card.New(folderID, req.Front, req.Back)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveCard(ctx, c); err != nil {
		h.logger.Error("failed to save card", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save card")
		return
	}

	respondJSON(w, http.StatusCreated, cardResponse(c))
}

// PUT /cards/{cardID}
func (h *Handler) updateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := r.PathValue("cardID")

	c, err := h.store.GetCard(ctx, cardID)
	if h.handleStoreError(w, err, "card") {
		return
	}
	if !h.requireMembership(w, r, c.FolderID, UserID(r)) {
		return
	}

	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.handleStoreError(w, h.store.UpdateCard(ctx, cardID, req.Front, req.Back), "card") {
		return
	}

	c.Front = req.Front
	c.Back = req.Back
	respondJSON(w, http.StatusOK, cardResponse(c))
}

// DELETE /cards/{cardID}
func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID := r.PathValue("cardID")

	c, err := h.store.GetCard(ctx, cardID)
	if h.handleStoreError(w, err, "card") {
		return
	}
	if !h.requireMembership(w, r, c.FolderID, UserID(r)) {
		return
	}

	if h.handleStoreError(w, h.store.DeleteCard(ctx, cardID), "card") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
