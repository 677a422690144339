package prompt

import (
	"context"
	"fmt"
	"strings"

	"adforge/internal/domain"
	"adforge/internal/providers/genai"
)

const (
	geminiProviderName = "gemini"
	staticProviderName = "static"

	maxAngles   = 6
	maxPersonas = 3
)

// GeminiSynthesizer builds the workspace knowledge base through the text
// generation client, falling back to deterministic output when the upstream
// call fails.
type GeminiSynthesizer struct {
	client   *genai.Client
	fallback Synthesizer
}

// NewGeminiSynthesizer wires the synthesizer. fallback may be nil, in which
// case the static synthesizer is used.
func NewGeminiSynthesizer(client *genai.Client, fallback Synthesizer) *GeminiSynthesizer {
	if fallback == nil {
		fallback = NewStaticSynthesizer()
	}
	return &GeminiSynthesizer{client: client, fallback: fallback}
}

type synthesisPayload struct {
	Personas []personaPayload `json:"personas"`
	Angles   []anglePayload   `json:"angles"`
}

type personaPayload struct {
	Name       string   `json:"name"`
	Age        string   `json:"age"`
	Occupation string   `json:"occupation"`
	Pains      []string `json:"pains"`
	Desires    []string `json:"desires"`
	Channels   []string `json:"channels"`
}

type anglePayload struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Hook        string `json:"hook"`
	Visual      string `json:"visual"`
}

// Synthesize generates personas and sales angles for the branding snapshot.
func (g *GeminiSynthesizer) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesisResult, error) {
	if g.client == nil {
		return g.useFallback(ctx, req)
	}

	var payload synthesisPayload
	if err := g.client.GenerateJSON(ctx, synthesisSystemPrompt, buildSynthesisPrompt(req), &payload); err != nil {
		return g.useFallback(ctx, req)
	}

	result := &SynthesisResult{Provider: geminiProviderName}
	for _, p := range payload.Personas {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		result.Personas = append(result.Personas, domain.Persona{
			Name:       p.Name,
			Age:        p.Age,
			Occupation: p.Occupation,
			Pains:      p.Pains,
			Desires:    p.Desires,
			Channels:   p.Channels,
		})
		if len(result.Personas) >= maxPersonas {
			break
		}
	}
	for _, a := range payload.Angles {
		if strings.TrimSpace(a.Hook) == "" || strings.TrimSpace(a.Visual) == "" {
			continue
		}
		result.Angles = append(result.Angles, domain.SalesAngle{
			Category:    a.Category,
			Title:       a.Title,
			Description: a.Description,
			Hook:        a.Hook,
			Visual:      a.Visual,
		})
		if len(result.Angles) >= maxAngles {
			break
		}
	}

	if len(result.Angles) == 0 {
		return g.useFallback(ctx, req)
	}
	return result, nil
}

func (g *GeminiSynthesizer) useFallback(ctx context.Context, req SynthesizeRequest) (*SynthesisResult, error) {
	res, err := g.fallback.Synthesize(ctx, req)
	if res != nil {
		res.Provider = staticProviderName
	}
	return res, err
}

const synthesisSystemPrompt = `You are a senior performance-marketing strategist. ` +
	`You study a brand and produce customer personas and emotionally distinct sales angles. ` +
	`Respond strictly with JSON matching the schema the user provides. ` +
	`Every angle hook must be a short literal ad headline; every visual must be an English scene description suitable for an image model.`

func buildSynthesisPrompt(req SynthesizeRequest) string {
	b := req.Branding
	locale := req.Locale
	if locale == "" {
		locale = "en"
	}
	sb := &strings.Builder{}
	sb.WriteString(`Schema: {"personas":[{"name":string,"age":string,"occupation":string,"pains":string[],"desires":string[],"channels":string[]}],"angles":[{"category":string,"title":string,"description":string,"hook":string,"visual":string}]}`)
	fmt.Fprintf(sb, "\nProduce up to %d personas and %d angles.", maxPersonas, maxAngles)
	fmt.Fprintf(sb, " Write hooks and descriptions in locale '%s'; keep every visual in English.", locale)
	fmt.Fprintf(sb, "\nBrand: name=%q, tagline=%q, description=%q.", b.Name, b.Tagline, b.Description)
	if len(b.Colors) > 0 {
		fmt.Fprintf(sb, " Brand colors: %s.", strings.Join(b.Colors, ", "))
	}
	return sb.String()
}

var _ Synthesizer = (*GeminiSynthesizer)(nil)
