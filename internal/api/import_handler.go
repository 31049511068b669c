package api

import (
	"net/http"

	"github.com/memodeck/backend/internal/excel"
)

// maxImportBytes caps spreadsheet uploads at 5 MiB.
const maxImportBytes = 5 << 20

type ImportCardsResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// POST /folders/{folderID}/cards/import
//
// Accepts an .xlsx upload (multipart field "file") with fronts in column A
// and backs in column B.
func (h *Handler) importCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID := r.PathValue("folderID")

	if !h.requireMembership(w, r, folderID, UserID(r)) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	result, err := excel.ImportCards(file, folderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(result.Cards) == 0 {
		respondError(w, http.StatusBadRequest, "no valid rows in spreadsheet")
		return
	}

	if err := h.store.SaveCards(ctx, result.Cards); err != nil {
		h.logger.Error("failed to save imported cards", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save cards")
		return
	}

	respondJSON(w, http.StatusCreated, ImportCardsResponse{
		Imported: len(result.Cards),
		Skipped:  result.Skipped,
		Errors:   result.Errors,
	})
}
