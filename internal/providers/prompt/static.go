package prompt

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"adforge/internal/domain"
)

// StaticSynthesizer emits a deterministic knowledge base so the rest of the
// pipeline stays operational without an upstream model.
type StaticSynthesizer struct{}

func NewStaticSynthesizer() *StaticSynthesizer {
	return &StaticSynthesizer{}
}

func (s *StaticSynthesizer) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesisResult, error) {
	c := cases.Title(language.Und)
	name := req.Branding.Name
	if name == "" {
		name = "The Brand"
	}
	name = c.String(name)

	personas := []domain.Persona{{
		Name:       fmt.Sprintf("%s Loyalist", name),
		Age:        "25-40",
		Occupation: "urban professional",
		Pains:      []string{"too little time", "decision fatigue"},
		Desires:    []string{"quality they can trust", "effortless buying"},
		Channels:   []string{"instagram", "youtube"},
	}}

	angles := []domain.SalesAngle{
		{
			Category:    "trust",
			Title:       "Proof over promises",
			Description: fmt.Sprintf("Position %s as the safe, proven choice.", name),
			Hook:        fmt.Sprintf("%s, chosen every day", name),
			Visual:      "Product centered on a clean studio table, soft daylight, confident minimal composition",
		},
		{
			Category:    "aspiration",
			Title:       "The upgraded routine",
			Description: "Show the better everyday life the product unlocks.",
			Hook:        "Your routine, upgraded",
			Visual:      "Lifestyle scene at golden hour, product in natural use, warm tones and shallow depth of field",
		},
		{
			Category:    "urgency",
			Title:       "Why wait",
			Description: "Lean on scarcity and momentum.",
			Hook:        "Everyone else already switched",
			Visual:      "Dynamic diagonal composition, bold brand colors, product in motion against a graphic background",
		},
		{
			Category:    "belonging",
			Title:       "Join the crowd",
			Description: "Community framing around shared taste.",
			Hook:        "Made for people like you",
			Visual:      "Group of friends sharing the product outdoors, candid documentary style, natural light",
		},
	}

	return &SynthesisResult{Personas: personas, Angles: angles, Provider: staticProviderName}, nil
}

var _ Synthesizer = (*StaticSynthesizer)(nil)
