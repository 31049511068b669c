// internal/api/routes.go
package api

import "net/http"

// RegisterRoutes wires all endpoints. Everything except registration and
// login requires a bearer token.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Auth
	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)

	// Folders
	mux.HandleFunc("POST /folders", h.requireAuth(h.createFolder))
	mux.HandleFunc("GET /folders", h.requireAuth(h.listFolders))
	mux.HandleFunc("GET /folders/{folderID}", h.requireAuth(h.getFolder))
	mux.HandleFunc("PUT /folders/{folderID}", h.requireAuth(h.updateFolder))
	mux.HandleFunc("DELETE /folders/{folderID}", h.requireAuth(h.deleteFolder))
	mux.HandleFunc("POST /folders/join", h.requireAuth(h.joinFolder))

	// Cards
	mux.HandleFunc("GET /folders/{folderID}/cards", h.requireAuth(h.listCards))
	mux.HandleFunc("POST /folders/{folderID}/cards", h.requireAuth(h.createCard))
	mux.HandleFunc("POST /folders/{folderID}/cards/import", h.requireAuth(h.importCards))
	mux.HandleFunc("PUT /cards/{cardID}", h.requireAuth(h.updateCard))
	mux.HandleFunc("DELETE /cards/{cardID}", h.requireAuth(h.deleteCard))

	// Study
	mux.HandleFunc("POST /study/next", h.requireAuth(h.nextCard))
	mux.HandleFunc("POST /study/result", h.requireAuth(h.recordResult))

	// AI generation
	mux.HandleFunc("POST /ai/generate", h.requireAuth(h.generateCards))
}
