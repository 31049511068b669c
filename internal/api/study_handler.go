package api

import (
	"errors"
	"net/http"

	"github.com/memodeck/backend/internal/domain/review"
	"github.com/memodeck/backend/internal/scheduler"
	"github.com/memodeck/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type NextCardRequest struct {
	FolderID string `json:"folder_id"`
	// RecentIDs is the session's last-shown window, newest last. The client
	// truncates it; the scheduler only suppresses, never excludes.
	RecentIDs []string `json:"recent_ids"`
	// LearnedIDs are cards the learner marked done for this session.
	LearnedIDs []string `json:"learned_ids"`
}

func (r *NextCardRequest) Validate() error {
	if r.FolderID == "" {
		return errors.New("folder_id is required")
	}
	return nil
}

type RecordResultRequest struct {
	CardID string `json:"card_id"`
	Result string `json:"result"` // "success" | "fail"
}

func (r *RecordResultRequest) Validate() error {
	if r.CardID == "" {
		return errors.New("card_id is required")
	}
	if !review.Outcome(r.Result).Valid() {
		return errors.New(`result must be "success" or "fail"`)
	}
	return nil
}

type RecordResultResponse struct {
	Status string `json:"status"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /study/next
func (h *Handler) nextCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)

	var req NextCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Membership is checked here; the scheduler trusts its inputs.
	if !h.requireMembership(w, r, req.FolderID, userID) {
		return
	}

	c, err := h.scheduler.Pick(ctx, userID, req.FolderID, req.RecentIDs, req.LearnedIDs)
	if errors.Is(err, scheduler.ErrNoCandidate) {
		respondError(w, http.StatusNotFound, "no card available")
		return
	}
	if err != nil {
		h.logger.Error("pick failed", "error", err, "folder_id", req.FolderID)
		respondError(w, http.StatusInternalServerError, "failed to pick a card")
		return
	}

	respondJSON(w, http.StatusOK, cardResponse(c))
}

// POST /study/result
func (h *Handler) recordResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)

	var req RecordResultRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.store.GetCard(ctx, req.CardID)
	if h.handleStoreError(w, err, "card") {
		return
	}
	if !h.requireMembership(w, r, c.FolderID, userID) {
		return
	}

	err = h.scheduler.RecordOutcome(ctx, userID, req.CardID, review.Outcome(req.Result))
	if errors.Is(err, store.ErrNotFound) {
		// The card was never picked for this user, so there is nothing to
		// update. Reported, not swallowed: it points at a client bug.
		respondError(w, http.StatusNotFound, "no review stats for that card")
		return
	}
	if err != nil {
		h.logger.Error("record outcome failed", "error", err, "card_id", req.CardID)
		respondError(w, http.StatusInternalServerError, "failed to record result")
		return
	}

	respondJSON(w, http.StatusOK, RecordResultResponse{Status: "ok"})
}
