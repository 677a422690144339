package creative

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"adforge/internal/domain"
	"adforge/internal/infra"
	"adforge/internal/providers/genai"
)

// TextGenerator is the contract the expander needs from the text model.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// ExpandOptions carries the optional brand context for one expansion.
type ExpandOptions struct {
	ReferenceAssets    domain.ReferenceAssets
	ProductDescription string
}

// Expander turns one sales angle into a structured visual spec through a
// schema-constrained text-generation call. It never retries; callers treat
// any failure as "this task produced nothing".
type Expander struct {
	textgen TextGenerator
	logger  infra.Logger
}

func NewExpander(textgen TextGenerator, logger infra.Logger) *Expander {
	return &Expander{textgen: textgen, logger: logger}
}

// Expand builds the visual spec for the angle at the requested aspect ratio.
func (e *Expander) Expand(ctx context.Context, angle domain.SalesAngle, aspectRatio string, opts ExpandOptions) (domain.VisualSpec, error) {
	hook := strings.TrimSpace(angle.Hook)
	visual := strings.TrimSpace(angle.Visual)
	if hook == "" || visual == "" {
		return nil, fmt.Errorf("%w: hook and visual are required", domain.ErrInvalidAngle)
	}
	if e.textgen == nil {
		return nil, fmt.Errorf("%w: no text generator configured", domain.ErrProviderFailure)
	}

	brandAware := opts.ReferenceAssets.Logo != "" || opts.ReferenceAssets.Product != ""
	user := buildExpandPrompt(hook, visual, aspectRatio, opts, brandAware)

	raw, err := e.textgen.GenerateText(ctx, expandSystemPrompt(brandAware), user, true)
	if err != nil {
		if errors.Is(err, domain.ErrProviderFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	var spec domain.VisualSpec
	if err := genai.DecodeJSON(raw, &spec); err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, fmt.Errorf("%w: empty spec", domain.ErrInvalidUpstreamResponse)
	}

	// Real asset URLs are substituted only after the model call so they never
	// enter the prompt; the walk is deterministic and total regardless of how
	// faithfully the model placed the tokens.
	tokens := map[string]string{}
	if opts.ReferenceAssets.Logo != "" {
		tokens[domain.TokenLogoURL] = opts.ReferenceAssets.Logo
	}
	if opts.ReferenceAssets.Product != "" {
		tokens[domain.TokenProductURL] = opts.ReferenceAssets.Product
	}
	spec.ReplaceTokens(tokens)

	if platformPrompt := spec.PlatformPrompt(); platformPrompt != "" {
		spec.SetPlatformPrompt(normalizePlatformPrompt(platformPrompt, aspectRatio, spec))
	}
	spec.EnsureAspectRatio(aspectRatio)

	return spec, nil
}

func expandSystemPrompt(brandAware bool) string {
	base := `You are an art director translating ad concepts into structured visual specifications for an image-generation model. ` +
		`Respond strictly with one JSON object matching this schema: ` +
		`{"meta_parameters":{"aspect_ratio":string,"stylize_value":number,"chaos_level":number},` +
		`"technical_analysis":string,"aesthetic_dna":string,"composition_grid":string,` +
		`"entities":[{"name":string,"role":string,"description":string}],` +
		`"generative_reconstruction":{"platform_prompt":string,"natural_language_prompt":string}}`
	if brandAware {
		base += `. Additionally include "brand_identity":{"use_reference_logo":bool,"use_reference_product":bool,"reference_links":string[]}. ` +
			`Mark entities tied to the provided brand assets as reference-locked and use the literal placeholder tokens ` +
			domain.TokenLogoURL + ` and ` + domain.TokenProductURL + ` wherever an asset URL belongs. Never invent asset URLs.`
	}
	return base
}

func buildExpandPrompt(hook, visual, aspectRatio string, opts ExpandOptions, brandAware bool) string {
	sb := &strings.Builder{}
	// The uppercased hook is the literal on-image headline; the downstream
	// model must not rephrase or translate it.
	fmt.Fprintf(sb, "On-image headline (render this text EXACTLY, case-significant, do not translate): %q.\n", strings.ToUpper(hook))
	fmt.Fprintf(sb, "Scene: %s\n", visual)
	fmt.Fprintf(sb, "Aspect ratio: %s\n", aspectRatio)
	if desc := strings.TrimSpace(opts.ProductDescription); desc != "" {
		fmt.Fprintf(sb, "Product: %s\n", desc)
	}
	if brandAware {
		sb.WriteString("Brand assets available:")
		if opts.ReferenceAssets.Logo != "" {
			sb.WriteString(" logo=" + domain.TokenLogoURL)
		}
		if opts.ReferenceAssets.Product != "" {
			sb.WriteString(" product=" + domain.TokenProductURL)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// directiveRe matches aspect/version/style flags the model may have appended
// to the platform prompt on its own.
var directiveRe = regexp.MustCompile(`--(?:ar|v|s|stylize|c|chaos|style)\s+\S+`)

// normalizePlatformPrompt strips any rendering directives the model emitted
// and re-appends a canonical block built from the caller's aspect ratio, so
// the directive always matches the image request that follows.
func normalizePlatformPrompt(prompt, aspectRatio string, spec domain.VisualSpec) string {
	cleaned := directiveRe.ReplaceAllString(prompt, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.TrimRight(cleaned, " ,")

	var b strings.Builder
	b.WriteString(cleaned)
	fmt.Fprintf(&b, " --ar %s", aspectRatio)
	meta := spec.MetaParameters()
	if v, ok := numericParam(meta["stylize_value"]); ok {
		fmt.Fprintf(&b, " --s %d", v)
	}
	if v, ok := numericParam(meta["chaos_level"]); ok {
		fmt.Fprintf(&b, " --c %d", v)
	}
	return b.String()
}

func numericParam(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
