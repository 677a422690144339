package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"adforge/internal/creative"
	"adforge/internal/domain"
	"adforge/internal/infra"
	"adforge/internal/middleware"
	"adforge/internal/providers/prompt"
)

// BatchGenerator is the creative-assembly operation the HTTP layer exposes.
type BatchGenerator interface {
	Generate(ctx context.Context, account domain.Account, slug string, req creative.BatchRequest) (*creative.BatchResult, error)
}

// BrandScraper extracts branding from a business URL.
type BrandScraper interface {
	Scrape(ctx context.Context, url string) (*domain.Branding, error)
}

// App is the handler container.
type App struct {
	Config      *infra.Config
	Logger      infra.Logger
	Workspaces  domain.WorkspaceRepository
	Assembler   BatchGenerator
	Scraper     BrandScraper
	Synthesizer prompt.Synthesizer
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{"error": slug, "message": message})
}

// domainError maps sentinel errors onto the HTTP contract.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "workspace not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, http.StatusForbidden, "quota_exceeded", "workspace creative limit reached")
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidAngle):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrDuplicateWorkspace):
		a.error(w, http.StatusConflict, "conflict", "workspace already exists")
	default:
		a.Logger.Error().Err(err).Msg("handlers: internal error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentAccount(r *http.Request) (domain.Account, bool) {
	return middleware.AccountFromContext(r.Context())
}
