package api

import (
	"errors"
	"net/http"

	"github.com/memodeck/backend/internal/domain/folder"
	"github.com/memodeck/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateFolderRequest struct {
	Name string `json:"name"`
}

func (r *CreateFolderRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateFolderRequest struct {
	Name string `json:"name"`
}

func (r *UpdateFolderRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type JoinFolderRequest struct {
	JoinCode string `json:"join_code"`
}

func (r *JoinFolderRequest) Validate() error {
	if r.JoinCode == "" {
		return errors.New("join_code is required")
	}
	return nil
}

type FolderResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OwnerID  string `json:"owner_id"`
	JoinCode string `json:"join_code,omitempty"`
	Members  int    `json:"members,omitempty"`
	Role     string `json:"role,omitempty"`
}

func folderResponse(f *folder.Folder, userID string) FolderResponse {
	resp := FolderResponse{
		ID:      f.ID,
		Name:    f.Name,
		OwnerID: f.OwnerID,
		Members: len(f.Members),
		Role:    string(f.MemberRole(userID)),
	}
	// The join code is how outsiders get in, so only members see it.
	if f.IsMember(userID) {
		resp.JoinCode = f.JoinCode
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /folders
func (h *Handler) createFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)

	var req CreateFolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f := folder.New(req.Name, userID)
	if err := h.store.SaveFolder(ctx, f); err != nil {
		h.logger.Error("failed to save folder", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save folder")
		return
	}

	respondJSON(w, http.StatusCreated, folderResponse(f, userID))
}

// GET /folders
func (h *Handler) listFolders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)

	folders, err := h.store.ListFoldersByUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load folders", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load folders")
		return
	}

	response := make([]FolderResponse, len(folders))
	for i, f := range folders {
		response[i] = FolderResponse{
			ID:       f.ID,
			Name:     f.Name,
			OwnerID:  f.OwnerID,
			JoinCode: f.JoinCode,
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GET /folders/{folderID}
func (h *Handler) getFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)
	folderID := r.PathValue("folderID")

	f, err := h.store.GetFolder(ctx, folderID)
	if h.handleStoreError(w, err, "folder") {
		return
	}
	if !f.IsMember(userID) {
		respondError(w, http.StatusForbidden, "access denied")
		return
	}

	respondJSON(w, http.StatusOK, folderResponse(f, userID))
}

// PUT /folders/{folderID}, owner only.
func (h *Handler) updateFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)
	folderID := r.PathValue("folderID")

	f, err := h.store.GetFolder(ctx, folderID)
	if h.handleStoreError(w, err, "folder") {
		return
	}
	if f.MemberRole(userID) != folder.RoleOwner {
		respondError(w, http.StatusForbidden, "only the owner can rename a folder")
		return
	}

	var req UpdateFolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.handleStoreError(w, h.store.UpdateFolderName(ctx, folderID, req.Name), "folder") {
		return
	}

	f.Name = req.Name
	respondJSON(w, http.StatusOK, folderResponse(f, userID))
}

// DELETE /folders/{folderID}, owner only. Cascades to cards and stats.
func (h *Handler) deleteFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)
	folderID := r.PathValue("folderID")

	f, err := h.store.GetFolder(ctx, folderID)
	if h.handleStoreError(w, err, "folder") {
		return
	}
	if f.MemberRole(userID) != folder.RoleOwner {
		respondError(w, http.StatusForbidden, "only the owner can delete a folder")
		return
	}

	if h.handleStoreError(w, h.store.DeleteFolder(ctx, folderID), "folder") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /folders/join
func (h *Handler) joinFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(r)

	var req JoinFolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f, err := h.store.GetFolderByJoinCode(ctx, req.JoinCode)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no folder with that join code")
		return
	}
	if err != nil {
		h.logger.Error("failed to look up join code", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.store.AddMember(ctx, f.ID, userID, folder.RoleMember); err != nil {
		h.logger.Error("failed to add member", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to join folder")
		return
	}

	f, err = h.store.GetFolder(ctx, f.ID)
	if h.handleStoreError(w, err, "folder") {
		return
	}
	respondJSON(w, http.StatusOK, folderResponse(f, userID))
}
