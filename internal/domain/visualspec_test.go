package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReplaceTokensWalksNestedTree(t *testing.T) {
	raw := `{
		"brand_identity": {
			"use_reference_logo": true,
			"reference_links": ["URL_LOGO", "URL_PRODUCT"]
		},
		"entities": [
			{"name": "logo", "description": "place URL_LOGO top right"},
			{"name": "product", "nested": {"deep": ["keep URL_PRODUCT sharp"]}}
		],
		"generative_reconstruction": {
			"platform_prompt": "hero shot featuring URL_PRODUCT"
		}
	}`
	var spec VisualSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	spec.ReplaceTokens(map[string]string{
		TokenLogoURL:    "https://cdn.example.com/logo.png",
		TokenProductURL: "https://cdn.example.com/product.png",
	})

	out, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), TokenLogoURL) || strings.Contains(string(out), TokenProductURL) {
		t.Fatalf("placeholder tokens remain after substitution: %s", out)
	}
	if !strings.Contains(string(out), "https://cdn.example.com/logo.png") {
		t.Fatalf("logo url missing from substituted tree: %s", out)
	}
	if spec.PlatformPrompt() != "hero shot featuring https://cdn.example.com/product.png" {
		t.Fatalf("platform prompt = %q", spec.PlatformPrompt())
	}
}

func TestReplaceTokensNoopWithoutTokens(t *testing.T) {
	spec := VisualSpec{"technical_analysis": "clean"}
	spec.ReplaceTokens(nil)
	if spec["technical_analysis"] != "clean" {
		t.Fatalf("spec mutated: %v", spec)
	}
}

func TestEnsureAspectRatio(t *testing.T) {
	spec := VisualSpec{}
	spec.EnsureAspectRatio("4:5")
	if got := spec.AspectRatio(); got != "4:5" {
		t.Fatalf("AspectRatio = %q, want 4:5", got)
	}

	spec = VisualSpec{"meta_parameters": map[string]any{"aspect_ratio": "9:16"}}
	spec.EnsureAspectRatio("4:5")
	if got := spec.AspectRatio(); got != "9:16" {
		t.Fatalf("explicit aspect overwritten: %q", got)
	}
}

func TestBrandingReferenceAssetsCapsOther(t *testing.T) {
	b := Branding{
		LogoURL:         "https://example.com/logo.png",
		ProductImageURL: "https://example.com/product.png",
		ImageURLs: []string{
			"https://example.com/logo.png",
			"https://example.com/a.png",
			"https://example.com/b.png",
			"https://example.com/c.png",
			"https://example.com/d.png",
		},
	}
	assets := b.ReferenceAssets()
	if !assets.HasAny() {
		t.Fatal("expected assets")
	}
	if len(assets.Other) != MaxReferenceImages {
		t.Fatalf("Other len = %d, want %d", len(assets.Other), MaxReferenceImages)
	}
	for _, u := range assets.Other {
		if u == assets.Logo {
			t.Fatal("logo duplicated into other")
		}
	}
}
