package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"adforge/internal/creative"
	"adforge/internal/domain"
	"adforge/internal/middleware"
	"adforge/internal/providers/prompt"
)

type memRepo struct {
	workspaces map[string]*domain.Workspace
	createErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{workspaces: map[string]*domain.Workspace{}}
}

func repoKey(ownerID, slug string) string { return ownerID + "/" + slug }

func (m *memRepo) Create(ctx context.Context, ws *domain.Workspace) error {
	if m.createErr != nil {
		return m.createErr
	}
	key := repoKey(ws.OwnerID, ws.Slug)
	if _, ok := m.workspaces[key]; ok {
		return domain.ErrDuplicateWorkspace
	}
	m.workspaces[key] = ws
	return nil
}

func (m *memRepo) GetByOwnerAndSlug(ctx context.Context, ownerID, slug string) (*domain.Workspace, error) {
	ws, ok := m.workspaces[repoKey(ownerID, slug)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ws, nil
}

func (m *memRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Workspace, error) {
	var out []domain.Workspace
	for _, ws := range m.workspaces {
		if ws.OwnerID == ownerID {
			out = append(out, *ws)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateContent(ctx context.Context, ownerID, slug string, creatives []domain.Creative, campaigns []domain.Campaign) error {
	ws, ok := m.workspaces[repoKey(ownerID, slug)]
	if !ok {
		return domain.ErrNotFound
	}
	ws.Creatives = creatives
	ws.Campaigns = campaigns
	return nil
}

func (m *memRepo) Delete(ctx context.Context, ownerID, slug string) error {
	key := repoKey(ownerID, slug)
	if _, ok := m.workspaces[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.workspaces, key)
	return nil
}

type fakeGenerator struct {
	lastReq creative.BatchRequest
	result  *creative.BatchResult
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, account domain.Account, slug string, req creative.BatchRequest) (*creative.BatchResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeScraper struct {
	branding *domain.Branding
	err      error
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (*domain.Branding, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.branding, nil
}

type fakeSynth struct{}

func (fakeSynth) Synthesize(ctx context.Context, req prompt.SynthesizeRequest) (*prompt.SynthesisResult, error) {
	return &prompt.SynthesisResult{
		Angles:   []domain.SalesAngle{{Category: "trust", Title: "t", Hook: "h", Visual: "v"}},
		Provider: "static",
	}, nil
}

func testApp(repo domain.WorkspaceRepository, gen BatchGenerator, scraper BrandScraper) *App {
	return &App{
		Logger:      zerolog.New(io.Discard),
		Workspaces:  repo,
		Assembler:   gen,
		Scraper:     scraper,
		Synthesizer: fakeSynth{},
	}
}

func testRouter(app *App, account *domain.Account) http.Handler {
	r := chi.NewRouter()
	if account != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.ContextWithAccount(req.Context(), *account)))
			})
		})
	}
	r.Post("/v1/workspaces", app.WorkspacesCreate)
	r.Get("/v1/workspaces", app.WorkspacesList)
	r.Get("/v1/workspaces/{slug}", app.WorkspacesGet)
	r.Delete("/v1/workspaces/{slug}", app.WorkspacesDelete)
	r.Get("/v1/workspaces/{slug}/creatives", app.CreativesList)
	r.Post("/v1/workspaces/{slug}/creatives/generate", app.CreativesGenerate)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = strings.NewReader(body)
	if body == "" {
		reader = http.NoBody
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWorkspacesCreateHappyPath(t *testing.T) {
	repo := newMemRepo()
	app := testApp(repo, &fakeGenerator{}, &fakeScraper{branding: &domain.Branding{Name: "Kopi Senja"}})
	router := testRouter(app, &domain.Account{ID: "user-1", Plan: domain.AccountPlanFree})

	rec := doJSON(t, router, http.MethodPost, "/v1/workspaces", `{"url": "https://kopisenja.example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	var ws domain.Workspace
	if err := json.Unmarshal(rec.Body.Bytes(), &ws); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ws.Slug != "kopi-senja" {
		t.Fatalf("slug = %q, want slugified brand name", ws.Slug)
	}
	if len(ws.Angles) == 0 {
		t.Fatal("synthesized angles missing")
	}
	if _, err := repo.GetByOwnerAndSlug(context.Background(), "user-1", "kopi-senja"); err != nil {
		t.Fatalf("workspace not stored: %v", err)
	}
}

func TestWorkspacesCreateScrapeFailureDegrades(t *testing.T) {
	repo := newMemRepo()
	app := testApp(repo, &fakeGenerator{}, &fakeScraper{err: fmt.Errorf("unreachable")})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	rec := doJSON(t, router, http.MethodPost, "/v1/workspaces", `{"url": "https://down.example.com", "slug": "fallback"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, scrape failure must not block creation: %s", rec.Code, rec.Body)
	}
}

func TestWorkspacesCreateValidation(t *testing.T) {
	app := testApp(newMemRepo(), &fakeGenerator{}, &fakeScraper{branding: &domain.Branding{}})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	cases := map[string]string{
		"missing url":  `{"slug": "acme"}`,
		"invalid slug": `{"url": "https://x.example.com", "slug": "Not A Slug"}`,
		"bad payload":  `{`,
	}
	for name, body := range cases {
		rec := doJSON(t, router, http.MethodPost, "/v1/workspaces", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestWorkspacesCreateConflict(t *testing.T) {
	repo := newMemRepo()
	repo.workspaces[repoKey("user-1", "acme")] = &domain.Workspace{OwnerID: "user-1", Slug: "acme"}
	app := testApp(repo, &fakeGenerator{}, &fakeScraper{branding: &domain.Branding{}})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	rec := doJSON(t, router, http.MethodPost, "/v1/workspaces", `{"url": "https://x.example.com", "slug": "acme"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHandlersRequireAccount(t *testing.T) {
	app := testApp(newMemRepo(), &fakeGenerator{}, &fakeScraper{})
	router := testRouter(app, nil)

	paths := []struct{ method, path string }{
		{http.MethodPost, "/v1/workspaces"},
		{http.MethodGet, "/v1/workspaces"},
		{http.MethodGet, "/v1/workspaces/acme"},
		{http.MethodPost, "/v1/workspaces/acme/creatives/generate"},
	}
	for _, p := range paths {
		rec := doJSON(t, router, p.method, p.path, `{}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", p.method, p.path, rec.Code)
		}
	}
}

func TestCreativesGenerateDefaultsCount(t *testing.T) {
	gen := &fakeGenerator{result: &creative.BatchResult{Generated: 1, Total: 1}}
	app := testApp(newMemRepo(), gen, &fakeScraper{})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	rec := doJSON(t, router, http.MethodPost, "/v1/workspaces/acme/creatives/generate", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	if gen.lastReq.Count != 1 {
		t.Fatalf("count = %d, want default 1", gen.lastReq.Count)
	}
}

func TestCreativesGenerateQuotaMapsTo403(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("%w: limit reached", domain.ErrQuotaExceeded)}
	app := testApp(newMemRepo(), gen, &fakeScraper{})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	rec := doJSON(t, router, http.MethodPost, "/v1/workspaces/acme/creatives/generate", `{"count": 2}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "quota_exceeded" {
		t.Fatalf("error slug = %v", body["error"])
	}
}

func TestCreativesGenerateUnknownWorkspace(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrNotFound}
	app := testApp(newMemRepo(), gen, &fakeScraper{})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	rec := doJSON(t, router, http.MethodPost, "/v1/workspaces/ghost/creatives/generate", `{"count": 1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreativesListReturnsItemsAndCampaigns(t *testing.T) {
	repo := newMemRepo()
	repo.workspaces[repoKey("user-1", "acme")] = &domain.Workspace{
		OwnerID:   "user-1",
		Slug:      "acme",
		Creatives: []domain.Creative{{ID: "c-1", Headline: "H"}},
		Campaigns: []domain.Campaign{{ID: "campaign-acme-welcome"}},
	}
	app := testApp(repo, &fakeGenerator{}, &fakeScraper{})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	rec := doJSON(t, router, http.MethodGet, "/v1/workspaces/acme/creatives", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Items     []domain.Creative `json:"items"`
		Campaigns []domain.Campaign `json:"campaigns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 || len(body.Campaigns) != 1 {
		t.Fatalf("body = %+v", body)
	}
}

func TestWorkspacesDelete(t *testing.T) {
	repo := newMemRepo()
	repo.workspaces[repoKey("user-1", "acme")] = &domain.Workspace{OwnerID: "user-1", Slug: "acme"}
	app := testApp(repo, &fakeGenerator{}, &fakeScraper{})
	router := testRouter(app, &domain.Account{ID: "user-1"})

	rec := doJSON(t, router, http.MethodDelete, "/v1/workspaces/acme", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/v1/workspaces/acme", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Kopi Senja":        "kopi-senja",
		"  Acme & Co.  ":    "acme-co",
		"UPPER":             "upper",
		"multi   spaces":    "multi-spaces",
		"trailing symbol!!": "trailing-symbol",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
