package creative

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"adforge/internal/domain"
	"adforge/internal/infra"
	"adforge/internal/providers/image"
)

const (
	// MaxFreeCreatives caps the total creatives a free-plan workspace may hold.
	MaxFreeCreatives = 3

	// windowSize bounds how many tasks run against the upstream APIs at once.
	// Window N settles fully before window N+1 launches.
	windowSize = 3

	maxBatchCount = 10

	defaultTaskTimeout = 60 * time.Second
)

// aspectRotation is the fixed ratio rotation for single-platform batches,
// offset by the workspace's existing creative count so repeated calls
// continue the rotation.
var aspectRotation = []string{"4:5", "1:1", "9:16", "3:4"}

type platformConfig struct {
	platform domain.Platform
	aspect   string
}

// platformSet is the fixed fan-out order for all-platforms batches.
var platformSet = []platformConfig{
	{domain.PlatformInstagram, "4:5"},
	{domain.PlatformThreads, "1:1"},
	{domain.PlatformLinkedIn, "16:9"},
	{domain.PlatformYouTube, "16:9"},
}

// SpecExpander is the expander contract the assembler depends on.
type SpecExpander interface {
	Expand(ctx context.Context, angle domain.SalesAngle, aspectRatio string, opts ExpandOptions) (domain.VisualSpec, error)
}

// AssetWriter persists rendered image bytes and returns a durable URL.
type AssetWriter interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// BatchRequest is the batch-generation operation exposed upward.
type BatchRequest struct {
	Count           int   `json:"count"`
	UseAngles       bool  `json:"use_angles"`
	AngleIndices    []int `json:"angle_indices,omitempty"`
	ForAllPlatforms bool  `json:"for_all_platforms"`
}

// BatchResult reports what a batch actually produced. Generated may be lower
// than requested: partial yield is the expected steady state.
type BatchResult struct {
	Generated int               `json:"generated"`
	Total     int               `json:"total"`
	Creatives []domain.Creative `json:"creatives"`
	Campaigns []domain.Campaign `json:"campaigns"`
}

// Assembler orchestrates creative batches: selection, quota, the
// bounded-concurrency task windows, and the single merged write-back.
type Assembler struct {
	repo        domain.WorkspaceRepository
	expander    SpecExpander
	images      image.Generator
	assets      AssetWriter
	logger      infra.Logger
	taskTimeout time.Duration
}

// AssemblerOptions wires the assembler's collaborators.
type AssemblerOptions struct {
	Repo        domain.WorkspaceRepository
	Expander    SpecExpander
	Images      image.Generator
	Assets      AssetWriter
	Logger      infra.Logger
	TaskTimeout time.Duration
}

func NewAssembler(opts AssemblerOptions) *Assembler {
	timeout := opts.TaskTimeout
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	return &Assembler{
		repo:        opts.Repo,
		expander:    opts.Expander,
		images:      opts.Images,
		assets:      opts.Assets,
		logger:      opts.Logger,
		taskTimeout: timeout,
	}
}

// task is one precomputed (angle, platform, aspect) slot. The whole table is
// built before any task launches, so angle choice is a pure function of the
// slot index and no two concurrent tasks can race on a shared counter.
type task struct {
	index    int
	headline string
	angle    *domain.SalesAngle
	aspect   string
	platform domain.Platform
	target   string
}

// Generate runs one creative batch for the workspace identified by
// (account.ID, slug).
func (a *Assembler) Generate(ctx context.Context, account domain.Account, slug string, req BatchRequest) (*BatchResult, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: workspace slug is required", domain.ErrInvalidRequest)
	}
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", domain.ErrInvalidRequest)
	}
	if req.Count > maxBatchCount {
		req.Count = maxBatchCount
	}

	ws, err := a.repo.GetByOwnerAndSlug(ctx, account.ID, slug)
	if err != nil {
		return nil, err
	}

	// Default to angle sourcing when the legacy headline list is absent but
	// angles exist.
	useAngles := req.UseAngles
	if !useAngles && len(ws.Headlines) == 0 && len(ws.Angles) > 0 {
		useAngles = true
	}
	if req.ForAllPlatforms && !useAngles {
		return nil, fmt.Errorf("%w: for_all_platforms requires angle sourcing", domain.ErrInvalidRequest)
	}

	var selected []domain.SalesAngle
	if useAngles {
		selected = selectAngles(ws.Angles, req.AngleIndices)
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: workspace has no usable angles", domain.ErrInvalidRequest)
		}
	} else if len(ws.Headlines) == 0 {
		return nil, fmt.Errorf("%w: workspace has no headlines", domain.ErrInvalidRequest)
	}

	base := len(ws.Creatives)
	tasks, err := a.shapeTasks(account, ws, req, useAngles, selected, base)
	if err != nil {
		return nil, err
	}

	refAssets := ws.Branding.ReferenceAssets()
	results := make([]*domain.Creative, len(tasks))
	for start := 0; start < len(tasks); start += windowSize {
		end := start + windowSize
		if end > len(tasks) {
			end = len(tasks)
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, t := range tasks[start:end] {
			t := t
			g.Go(func() error {
				results[t.index] = a.runTask(gctx, ws, refAssets, t)
				return nil
			})
		}
		// Tasks report failures as nil results, so Wait only fails when the
		// parent context is done.
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	produced := make([]domain.Creative, 0, len(results))
	for _, c := range results {
		if c != nil {
			produced = append(produced, *c)
		}
	}

	merged := append(append([]domain.Creative(nil), ws.Creatives...), produced...)
	campaigns := BuildCampaignsView(merged, ws.Branding, ws.Slug)
	if err := a.repo.UpdateContent(ctx, ws.OwnerID, ws.Slug, merged, campaigns); err != nil {
		return nil, fmt.Errorf("persist creatives: %w", err)
	}

	return &BatchResult{
		Generated: len(produced),
		Total:     len(merged),
		Creatives: produced,
		Campaigns: campaigns,
	}, nil
}

// selectAngles filters by explicit indices, silently dropping out-of-range
// entries.
func selectAngles(angles []domain.SalesAngle, indices []int) []domain.SalesAngle {
	if len(indices) == 0 {
		return angles
	}
	var out []domain.SalesAngle
	for _, idx := range indices {
		if idx < 0 || idx >= len(angles) {
			continue
		}
		out = append(out, angles[idx])
	}
	return out
}

// shapeTasks precomputes the full slot table for the batch, enforcing quota
// before any task launches.
func (a *Assembler) shapeTasks(account domain.Account, ws *domain.Workspace, req BatchRequest, useAngles bool, selected []domain.SalesAngle, base int) ([]task, error) {
	if req.ForAllPlatforms {
		angleCount := req.Count
		if angleCount > len(selected) {
			angleCount = len(selected)
		}
		if account.IsFree() {
			fit := (MaxFreeCreatives - base) / len(platformSet)
			if fit <= 0 {
				return nil, fmt.Errorf("%w: workspace creative limit reached", domain.ErrQuotaExceeded)
			}
			if angleCount > fit {
				angleCount = fit
			}
		}
		tasks := make([]task, 0, angleCount*len(platformSet))
		for i := 0; i < angleCount; i++ {
			angle := &selected[i]
			for _, cfg := range platformSet {
				tasks = append(tasks, task{
					index:    len(tasks),
					headline: angle.Hook,
					angle:    angle,
					aspect:   cfg.aspect,
					platform: cfg.platform,
					target:   string(cfg.platform),
				})
			}
		}
		return tasks, nil
	}

	count := req.Count
	if account.IsFree() {
		remaining := MaxFreeCreatives - base
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: workspace creative limit reached", domain.ErrQuotaExceeded)
		}
		if count > remaining {
			count = remaining
		}
	}
	tasks := make([]task, 0, count)
	for i := 0; i < count; i++ {
		t := task{
			index:    i,
			aspect:   aspectRotation[(base+i)%len(aspectRotation)],
			platform: domain.PlatformInstagram,
		}
		if useAngles {
			angle := &selected[(base+i)%len(selected)]
			t.angle = angle
			t.headline = angle.Hook
		} else {
			t.headline = ws.Headlines[(base+i)%len(ws.Headlines)]
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// runTask executes one slot end to end. Any failure is logged and absorbed
// into a nil result; no partial record is ever returned.
func (a *Assembler) runTask(ctx context.Context, ws *domain.Workspace, refAssets domain.ReferenceAssets, t task) *domain.Creative {
	ctx, cancel := context.WithTimeout(ctx, a.taskTimeout)
	defer cancel()

	angle := domain.SalesAngle{Hook: t.headline, Visual: defaultSceneFor(ws.Branding)}
	if t.angle != nil {
		angle = *t.angle
	}

	spec, err := a.expander.Expand(ctx, angle, t.aspect, ExpandOptions{
		ReferenceAssets:    refAssets,
		ProductDescription: ws.Branding.Description,
	})
	if err != nil {
		a.taskLog(t).Err(err).Msg("assembler: expand failed")
		return nil
	}

	prompt := renderingPrompt(spec)
	asset, err := a.images.Generate(ctx, image.GenerateRequest{
		Prompt:          prompt,
		AspectRatio:     t.aspect,
		ReferenceAssets: refAssets,
		RequestID:       fmt.Sprintf("%s-%d", ws.Slug, t.index),
	})
	if err != nil {
		a.taskLog(t).Err(err).Msg("assembler: image generation failed")
		return nil
	}
	if asset == nil || len(asset.Data) == 0 {
		a.taskLog(t).Msg("assembler: image generation yielded nothing")
		return nil
	}

	id := uuid.NewString()
	key := fmt.Sprintf("creatives/%s/%s%s", ws.Slug, id, extensionForMIME(asset.Format))
	imageURL, err := a.assets.Write(ctx, key, asset.Data)
	if err != nil {
		a.taskLog(t).Err(err).Msg("assembler: asset persistence failed")
		return nil
	}

	return &domain.Creative{
		ID:             id,
		Headline:       t.headline,
		ImagePrompt:    spec,
		ImageURL:       imageURL,
		AspectRatio:    t.aspect,
		Platform:       t.platform,
		TargetPlatform: t.target,
		CreatedAt:      time.Now().UTC(),
		Metadata: domain.CreativeMetadata{
			AngleCategory:  angle.Category,
			AngleTitle:     angle.Title,
			TargetPlatform: t.target,
		},
	}
}

func (a *Assembler) taskLog(t task) *zerolog.Event {
	ev := a.logger.Warn().Int("task", t.index).Str("aspect", t.aspect)
	if t.angle != nil {
		ev = ev.Str("angle", t.angle.Title)
	}
	if t.target != "" {
		ev = ev.Str("platform", t.target)
	}
	return ev
}

// renderingPrompt prefers the platform-native prompt, then the plain-English
// prompt, then a structured stringification of the whole spec.
func renderingPrompt(spec domain.VisualSpec) string {
	if p := spec.PlatformPrompt(); p != "" {
		return p
	}
	if p := spec.NaturalLanguagePrompt(); p != "" {
		return p
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return ""
	}
	return string(raw)
}

// defaultSceneFor backs headline-sourced slots, which carry no angle and
// therefore no scene description of their own.
func defaultSceneFor(b domain.Branding) string {
	scene := "Clean studio product scene with bold on-image headline"
	if b.Name != "" {
		scene = fmt.Sprintf("%s for %s", scene, b.Name)
	}
	return scene
}

func extensionForMIME(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
