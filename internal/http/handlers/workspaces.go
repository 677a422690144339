package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"adforge/internal/domain"
	"adforge/internal/middleware"
	"adforge/internal/providers/prompt"
)

type workspaceCreateRequest struct {
	URL       string   `json:"url"`
	Slug      string   `json:"slug"`
	Headlines []string `json:"headlines,omitempty"`
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// WorkspacesCreate scrapes branding from the given business URL, synthesizes
// the marketing knowledge base and stores the new workspace.
func (a *App) WorkspacesCreate(w http.ResponseWriter, r *http.Request) {
	account, ok := a.currentAccount(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req workspaceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "url is required")
		return
	}

	branding, err := a.Scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		a.Logger.Warn().Err(err).Str("url", req.URL).Msg("workspaces: branding scrape failed")
		branding = &domain.Branding{}
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = slugify(branding.Name)
	}
	if !slugRe.MatchString(slug) {
		a.error(w, http.StatusBadRequest, "bad_request", "slug must be lowercase alphanumeric with dashes")
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	synthesis, err := a.Synthesizer.Synthesize(r.Context(), prompt.SynthesizeRequest{Branding: *branding, Locale: locale})
	if err != nil {
		a.domainError(w, err)
		return
	}

	now := time.Now().UTC()
	ws := &domain.Workspace{
		OwnerID:   account.ID,
		Slug:      slug,
		SourceURL: req.URL,
		Branding:  *branding,
		Personas:  synthesis.Personas,
		Angles:    synthesis.Angles,
		Headlines: req.Headlines,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Workspaces.Create(r.Context(), ws); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, ws)
}

func (a *App) WorkspacesList(w http.ResponseWriter, r *http.Request) {
	account, ok := a.currentAccount(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	items, err := a.Workspaces.ListByOwner(r.Context(), account.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) WorkspacesGet(w http.ResponseWriter, r *http.Request) {
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
	a.json(w, http.StatusOK, ws)
}

func (a *App) WorkspacesDelete(w http.ResponseWriter, r *http.Request) {
	account, ok := a.currentAccount(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := a.Workspaces.Delete(r.Context(), account.ID, chi.URLParam(r, "slug")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
