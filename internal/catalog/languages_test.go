package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLanguageName(t *testing.T) {
	cases := map[string]string{
		"fr":    "French",
		"FR":    "French",
		"zh-cn": "Chinese (Simplified)",
		"ht":    "Haitian Creole",
		"auto":  "Auto-detect",
		"xx":    "Unknown (xx)",
		"Qq":    "Unknown (Qq)",
	}
	for code, want := range cases {
		if got := LanguageName(code); got != want {
			t.Fatalf("LanguageName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestLanguagesSortedByName(t *testing.T) {
	langs := Languages()
	require.Len(t, langs, len(languageNames))
	require.True(t, sort.SliceIsSorted(langs, func(i, j int) bool {
		return langs[i].Name < langs[j].Name
	}))
	require.Equal(t, "Afrikaans", langs[0].Name)
	require.True(t, KnownLanguage("EN"))
	require.False(t, KnownLanguage("auto"))
}

func TestNormalizeProviderSlug(t *testing.T) {
	require.Equal(t, "google", NormalizeProviderSlug(" GTranslate "))
	require.Equal(t, "bedrock", NormalizeProviderSlug("aws"))
	require.Equal(t, "openai", NormalizeProviderSlug("openai"))
	require.Equal(t, "", NormalizeProviderSlug("  "))
}
