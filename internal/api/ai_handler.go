package api

import (
	"errors"
	"net/http"

	"github.com/memodeck/backend/internal/generator"
)

// ── Request / Response types ────────────────────────────────────────────────

type GenerateCardsRequest struct {
	FolderID string `json:"folder_id"`
	Topic    string `json:"topic"`
	Count    int    `json:"count"` // optional, capped server-side
}

func (r *GenerateCardsRequest) Validate() error {
	if r.FolderID == "" {
		return errors.New("folder_id is required")
	}
	if r.Topic == "" {
		return errors.New("topic is required")
	}
	return nil
}

type GenerateCardsResponse struct {
	Generated     []CardResponse `json:"generated"`
	Count         int            `json:"count"`
	StyleDetected string         `json:"style_detected"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /ai/generate
func (h *Handler) generateCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)

	var req GenerateCardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !h.requireMembership(w, r, req.FolderID, userID) {
		return
	}

	cards, style, err := h.generation.GenerateAndSave(ctx, req.FolderID, req.Topic, req.Count)
	if err != nil {
		var genErr *generator.GenerateError
		if errors.As(err, &genErr) {
			respondError(w, http.StatusBadGateway, genErr.Error())
			return
		}
		h.logger.Error("generation failed", "error", err, "topic", req.Topic)
		respondError(w, http.StatusInternalServerError, "failed to generate cards")
		return
	}

	response := GenerateCardsResponse{
		Generated:     make([]CardResponse, len(cards)),
		Count:         len(cards),
		StyleDetected: style,
	}
	for i, c := range cards {
		response.Generated[i] = cardResponse(c)
	}

	respondJSON(w, http.StatusCreated, response)
}
