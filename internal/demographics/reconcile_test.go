package demographics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_AliasHit(t *testing.T) {
	r := NewReconciler(DefaultAliases())
	assert.Equal(t, "Russia", r.Canonicalize("Russian Federation"))
	assert.Equal(t, "South Korea", r.Canonicalize("Korea, Rep."))
	assert.Equal(t, "United States of America", r.Canonicalize("United States"))
}

func TestCanonicalize_EveryAliasMapsToTarget(t *testing.T) {
	aliases := DefaultAliases()
	r := NewReconciler(aliases)
	for variant, canonical := range aliases {
		assert.Equal(t, canonical, r.Canonicalize(variant), "variant %q", variant)
	}
}

func TestCanonicalize_IdentityForUnknown(t *testing.T) {
	r := NewReconciler(DefaultAliases())
	assert.Equal(t, "Kenya", r.Canonicalize("Kenya"))
	assert.Equal(t, "France", r.Canonicalize("  France "))
}

func TestCanonicalize_AccentFolding(t *testing.T) {
	r := NewReconciler(DefaultAliases())
	// The table carries the unaccented variant; the accented source spelling
	// must hit the same entry.
	assert.Equal(t, "Ivory Coast", r.Canonicalize("Côte d'Ivoire"))
	assert.Equal(t, "Ivory Coast", r.Canonicalize("Cote d'Ivoire"))
}

func TestCanonicalize_CaseInsensitiveLookup(t *testing.T) {
	r := NewReconciler(map[string]string{"Burma": "Myanmar"})
	assert.Equal(t, "Myanmar", r.Canonicalize("BURMA"))
}

func TestUnmatched(t *testing.T) {
	r := NewReconciler(map[string]string{"Korea, Rep.": "South Korea"})
	vocab := []string{"South Korea", "Kenya"}

	got := r.Unmatched([]string{"Korea, Rep.", "Kenya", "Atlantis", "Zembla", "Atlantis"}, vocab)
	assert.Equal(t, []string{"Atlantis", "Zembla"}, got)
}

func TestUnmatched_EmptyWhenAllResolve(t *testing.T) {
	r := NewReconciler(DefaultAliases())
	got := r.Unmatched([]string{"Russian Federation"}, []string{"Russia"})
	assert.Empty(t, got)
}

func TestLoadAliases_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\"Burma\": \"Myanmar\"\n\"Zaire\": \"Democratic Republic of the Congo\"\n"), 0o644))

	aliases, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, "Myanmar", aliases["Burma"])
	assert.Len(t, aliases, 2)
}

func TestLoadAliases_MissingFile(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
