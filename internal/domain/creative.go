package domain

import "time"

// Platform enumerates supported ad placements.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformThreads   Platform = "threads"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformYouTube   Platform = "youtube"
)

// CreativeMetadata carries the angle lineage of a creative for log
// correlation and downstream grouping.
type CreativeMetadata struct {
	AngleCategory  string `json:"angleCategory,omitempty"`
	AngleTitle     string `json:"angleTitle,omitempty"`
	TargetPlatform string `json:"targetPlatform,omitempty"`
}

// Creative is one persisted (headline, image, metadata) tuple. Records are
// never mutated after creation; the workspace list is rewritten wholesale on
// persistence.
type Creative struct {
	ID             string           `json:"id"`
	Headline       string           `json:"headline"`
	ImagePrompt    VisualSpec       `json:"imagePrompt,omitempty"`
	ImageURL       string           `json:"imageUrl"`
	AspectRatio    string           `json:"aspectRatio"`
	Platform       Platform         `json:"platform"`
	TargetPlatform string           `json:"targetPlatform,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	Metadata       CreativeMetadata `json:"metadata"`
}

// AdSet groups creatives inside a campaign.
type AdSet struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Creatives []Creative `json:"creatives"`
}

// Campaign is a derived read-model over the creative list. It is a cache,
// regenerable from creatives plus branding at any time, never a source of
// truth.
type Campaign struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Objective string  `json:"objective,omitempty"`
	Status    string  `json:"status"`
	AdSets    []AdSet `json:"adSets"`
}
