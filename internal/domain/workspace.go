package domain

import (
	"strings"
	"time"
)

// MaxReferenceImages bounds how many auxiliary brand images ride along with a
// generation request.
const MaxReferenceImages = 3

// Branding is the scraped and curated identity of the business a workspace
// belongs to.
type Branding struct {
	Name            string   `json:"name"`
	Tagline         string   `json:"tagline,omitempty"`
	Description     string   `json:"description,omitempty"`
	Colors          []string `json:"colors,omitempty"`
	LogoURL         string   `json:"logo_url,omitempty"`
	ProductImageURL string   `json:"product_image_url,omitempty"`
	ImageURLs       []string `json:"image_urls,omitempty"`
}

// ReferenceAssets is the read-only snapshot of brand imagery handed to one
// generation batch.
type ReferenceAssets struct {
	Logo    string   `json:"logo,omitempty"`
	Product string   `json:"product,omitempty"`
	Other   []string `json:"other,omitempty"`
}

// HasAny reports whether at least one real asset URL is present.
func (r ReferenceAssets) HasAny() bool {
	return r.Logo != "" || r.Product != "" || len(r.Other) > 0
}

// ReferenceAssets derives the asset snapshot from branding, capping the
// auxiliary image list.
func (b Branding) ReferenceAssets() ReferenceAssets {
	assets := ReferenceAssets{
		Logo:    strings.TrimSpace(b.LogoURL),
		Product: strings.TrimSpace(b.ProductImageURL),
	}
	for _, u := range b.ImageURLs {
		u = strings.TrimSpace(u)
		if u == "" || u == assets.Logo || u == assets.Product {
			continue
		}
		assets.Other = append(assets.Other, u)
		if len(assets.Other) >= MaxReferenceImages {
			break
		}
	}
	return assets
}

// Persona is a synthesized customer profile.
type Persona struct {
	Name       string   `json:"name"`
	Age        string   `json:"age,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
	Pains      []string `json:"pains,omitempty"`
	Desires    []string `json:"desires,omitempty"`
	Channels   []string `json:"channels,omitempty"`
}

// SalesAngle is a pre-generated marketing framing used as the seed for one
// creative. Angles are immutable once synthesized.
type SalesAngle struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Hook        string `json:"hook"`
	Visual      string `json:"visual"`
}

// Workspace is the unit of ownership: one business, keyed by (owner, slug).
type Workspace struct {
	OwnerID   string       `json:"owner_id"`
	Slug      string       `json:"slug"`
	SourceURL string       `json:"source_url,omitempty"`
	Branding  Branding     `json:"branding"`
	Personas  []Persona    `json:"personas,omitempty"`
	Angles    []SalesAngle `json:"angles,omitempty"`
	Headlines []string     `json:"headlines,omitempty"`
	Creatives []Creative   `json:"creatives,omitempty"`
	Campaigns []Campaign   `json:"campaigns,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
