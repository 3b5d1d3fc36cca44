package catalog

import "strings"

var providerAliases = map[string]string{
	"gtranslate":        "google",
	"google_translate":  "google",
	"googletrans":       "google",
	"openai_compatible": "openai",
	"openai-compatible": "openai",
	"aws":               "bedrock",
	"aws_bedrock":       "bedrock",
}

// NormalizeProviderSlug canonicalizes provider identifiers so config aliases resolve to registered names.
func NormalizeProviderSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	if slug == "" {
		return ""
	}
	if canonical, ok := providerAliases[slug]; ok {
		return canonical
	}
	return slug
}
