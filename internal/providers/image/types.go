package image

import (
	"context"

	"adforge/internal/domain"
)

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt          string
	AspectRatio     string
	ReferenceAssets domain.ReferenceAssets
	RequestID       string
}

// Asset represents one rendered image.
type Asset struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Generator is the contract implemented by all image providers. A soft
// failure (safety filter, empty candidate list) returns (nil, nil); errors
// are reserved for transport-level failures.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}
