package domain

import "strings"

// Placeholder tokens the brand-aware template instructs the model to emit in
// place of real asset URLs. Real URLs are substituted only after the model
// responds, so they never enter the generation prompt.
const (
	TokenLogoURL    = "URL_LOGO"
	TokenProductURL = "URL_PRODUCT"
)

// VisualSpec is the schema-shaped rendering description returned by the
// text-generation model: meta_parameters, technical_analysis, aesthetic_dna,
// composition_grid, entities and generative_reconstruction, optionally a
// brand_identity block when reference assets exist. The model emits a
// free-form nested tree, so the spec is kept raw; the accessors below cover
// the fields the pipeline depends on.
type VisualSpec map[string]any

const (
	keyMetaParameters = "meta_parameters"
	keyAspectRatio    = "aspect_ratio"
	keyReconstruction = "generative_reconstruction"
	keyPlatformPrompt = "platform_prompt"
	keyNaturalPrompt  = "natural_language_prompt"
)

// MetaParameters returns the meta_parameters block, creating it when absent.
func (s VisualSpec) MetaParameters() map[string]any {
	if m, ok := s[keyMetaParameters].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	s[keyMetaParameters] = m
	return m
}

// AspectRatio returns meta_parameters.aspect_ratio, or empty when unset.
func (s VisualSpec) AspectRatio() string {
	if m, ok := s[keyMetaParameters].(map[string]any); ok {
		if v, ok := m[keyAspectRatio].(string); ok {
			return v
		}
	}
	return ""
}

// EnsureAspectRatio fills meta_parameters.aspect_ratio when the model omitted
// it. The caller's value wins over nothing, never over an explicit one.
func (s VisualSpec) EnsureAspectRatio(aspect string) {
	if strings.TrimSpace(s.AspectRatio()) == "" {
		s.MetaParameters()[keyAspectRatio] = aspect
	}
}

func (s VisualSpec) reconstruction() map[string]any {
	if m, ok := s[keyReconstruction].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	s[keyReconstruction] = m
	return m
}

// PlatformPrompt returns the rendering-ready platform prompt, if any.
func (s VisualSpec) PlatformPrompt() string {
	if m, ok := s[keyReconstruction].(map[string]any); ok {
		if v, ok := m[keyPlatformPrompt].(string); ok {
			return v
		}
	}
	return ""
}

// SetPlatformPrompt overwrites the platform prompt field.
func (s VisualSpec) SetPlatformPrompt(prompt string) {
	s.reconstruction()[keyPlatformPrompt] = prompt
}

// NaturalLanguagePrompt returns the plain-English rendering prompt, if any.
func (s VisualSpec) NaturalLanguagePrompt() string {
	if m, ok := s[keyReconstruction].(map[string]any); ok {
		if v, ok := m[keyNaturalPrompt].(string); ok {
			return v
		}
	}
	return ""
}

// ReplaceTokens substitutes placeholder tokens in every string leaf of the
// spec tree, including nested objects and arrays. The walk is total: after it
// returns, no replaced token remains anywhere in the tree.
func (s VisualSpec) ReplaceTokens(tokens map[string]string) {
	if len(tokens) == 0 {
		return
	}
	for k, v := range s {
		s[k] = replaceTokensValue(v, tokens)
	}
}

func replaceTokensValue(v any, tokens map[string]string) any {
	switch val := v.(type) {
	case string:
		for token, replacement := range tokens {
			val = strings.ReplaceAll(val, token, replacement)
		}
		return val
	case map[string]any:
		for k, nested := range val {
			val[k] = replaceTokensValue(nested, tokens)
		}
		return val
	case []any:
		for i, nested := range val {
			val[i] = replaceTokensValue(nested, tokens)
		}
		return val
	default:
		return v
	}
}
