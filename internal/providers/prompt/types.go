package prompt

import (
	"context"

	"adforge/internal/domain"
)

// SynthesizeRequest carries the scraped branding a knowledge base is built
// from, plus the copy locale.
type SynthesizeRequest struct {
	Branding domain.Branding
	Locale   string
}

// SynthesisResult is the generated marketing knowledge base for a workspace.
type SynthesisResult struct {
	Personas []domain.Persona
	Angles   []domain.SalesAngle
	Provider string
}

// Synthesizer produces customer personas and sales angles from branding.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesisResult, error)
}
