package creative

import (
	"fmt"
	"reflect"
	"testing"

	"adforge/internal/domain"
)

func creativesNamed(n int) []domain.Creative {
	out := make([]domain.Creative, n)
	for i := range out {
		out[i] = domain.Creative{ID: fmt.Sprintf("c-%d", i), Headline: fmt.Sprintf("H%d", i)}
	}
	return out
}

func TestBuildCampaignsViewEmpty(t *testing.T) {
	if got := BuildCampaignsView(nil, domain.Branding{}, "acme"); got != nil {
		t.Fatalf("empty input should project to nil, got %+v", got)
	}
}

func TestBuildCampaignsViewSingleAdSet(t *testing.T) {
	campaigns := BuildCampaignsView(creativesNamed(2), domain.Branding{Name: "Acme"}, "acme")
	if len(campaigns) != 1 {
		t.Fatalf("campaigns = %d, want 1", len(campaigns))
	}
	c := campaigns[0]
	if c.Name != "Acme Welcome Campaign" {
		t.Fatalf("name = %q", c.Name)
	}
	if len(c.AdSets) != 1 {
		t.Fatalf("ad sets = %d, want 1 when everything fits the welcome set", len(c.AdSets))
	}
	if c.AdSets[0].ID != "adset-acme-welcome" {
		t.Fatalf("ad set ID = %q", c.AdSets[0].ID)
	}
	if len(c.AdSets[0].Creatives) != 2 {
		t.Fatalf("welcome creatives = %d, want 2", len(c.AdSets[0].Creatives))
	}
}

func TestBuildCampaignsViewSplitsWelcomeAndEvergreen(t *testing.T) {
	campaigns := BuildCampaignsView(creativesNamed(5), domain.Branding{Name: "Acme"}, "acme")
	adSets := campaigns[0].AdSets
	if len(adSets) != 2 {
		t.Fatalf("ad sets = %d, want 2", len(adSets))
	}
	if len(adSets[0].Creatives) != welcomeAdSetSize {
		t.Fatalf("welcome size = %d, want %d", len(adSets[0].Creatives), welcomeAdSetSize)
	}
	if len(adSets[1].Creatives) != 2 {
		t.Fatalf("evergreen size = %d, want 2", len(adSets[1].Creatives))
	}
	if adSets[0].Creatives[0].ID != "c-0" || adSets[1].Creatives[0].ID != "c-3" {
		t.Fatalf("ordering broken: %+v", adSets)
	}
	if adSets[1].ID != "adset-acme-evergreen" {
		t.Fatalf("evergreen ID = %q", adSets[1].ID)
	}
}

func TestBuildCampaignsViewIsIdempotent(t *testing.T) {
	in := creativesNamed(7)
	first := BuildCampaignsView(in, domain.Branding{Name: "Acme"}, "acme")
	second := BuildCampaignsView(in, domain.Branding{Name: "Acme"}, "acme")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("projection is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestBuildCampaignsViewFallsBackToSlug(t *testing.T) {
	campaigns := BuildCampaignsView(creativesNamed(1), domain.Branding{}, "acme-store")
	if campaigns[0].Name != "acme-store Welcome Campaign" {
		t.Fatalf("name = %q, want slug fallback", campaigns[0].Name)
	}
}

func TestBuildCampaignsViewDoesNotAliasInput(t *testing.T) {
	in := creativesNamed(4)
	campaigns := BuildCampaignsView(in, domain.Branding{Name: "Acme"}, "acme")
	campaigns[0].AdSets[0].Creatives[0].Headline = "mutated"
	if in[0].Headline == "mutated" {
		t.Fatal("projection shares backing storage with the input slice")
	}
}
