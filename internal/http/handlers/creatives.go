package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adforge/internal/creative"
)

// CreativesGenerate runs one batch of the creative-generation pipeline for
// the workspace.
func (a *App) CreativesGenerate(w http.ResponseWriter, r *http.Request) {
	account, ok := a.currentAccount(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "slug required")
		return
	}
	var req creative.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	result, err := a.Assembler.Generate(r.Context(), account, slug, req)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

func (a *App) CreativesList(w http.ResponseWriter, r *http.Request) {
	account, ok := a.currentAccount(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	ws, err := a.Workspaces.GetByOwnerAndSlug(r.Context(), account.ID, chi.URLParam(r, "slug"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":     ws.Creatives,
		"campaigns": ws.Campaigns,
	})
}
