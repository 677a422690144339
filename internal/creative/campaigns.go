package creative

import (
	"fmt"

	"adforge/internal/domain"
)

const welcomeAdSetSize = 3

// BuildCampaignsView projects the creative list into the downstream campaign
// format. It is a pure function: deterministic for a given input, free of
// side effects, and safe to discard and recompute on every persistence.
func BuildCampaignsView(creatives []domain.Creative, branding domain.Branding, slug string) []domain.Campaign {
	if len(creatives) == 0 {
		return nil
	}

	name := branding.Name
	if name == "" {
		name = slug
	}

	welcome := creatives
	if len(welcome) > welcomeAdSetSize {
		welcome = creatives[:welcomeAdSetSize]
	}

	adSets := []domain.AdSet{{
		ID:        fmt.Sprintf("adset-%s-welcome", slug),
		Name:      "Welcome Ad Set",
		Creatives: append([]domain.Creative(nil), welcome...),
	}}
	if rest := creatives[len(welcome):]; len(rest) > 0 {
		adSets = append(adSets, domain.AdSet{
			ID:        fmt.Sprintf("adset-%s-evergreen", slug),
			Name:      "Evergreen Ad Set",
			Creatives: append([]domain.Creative(nil), rest...),
		})
	}

	return []domain.Campaign{{
		ID:        fmt.Sprintf("campaign-%s-welcome", slug),
		Name:      fmt.Sprintf("%s Welcome Campaign", name),
		Objective: "awareness",
		Status:    "active",
		AdSets:    adSets,
	}}
}
