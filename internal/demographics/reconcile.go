// Package demographics ingests national indicator tables and reconciles their
// country names against the yield dataset's vocabulary.
package demographics

import (
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Reconciler rewrites demographic-source country names to the canonical
// spellings used by the boundary dataset. It is a best-effort finite mapping:
// names absent from the table pass through unchanged, and the set of names
// that still fail to match is exposed as a diagnostic, never dropped silently.
type Reconciler struct {
	aliases map[string]string // fold(variant) → canonical
}

// foldName lowercases a name and strips diacritics so that spelling variants
// like "Côte d'Ivoire" and "Cote d'Ivoire" hit the same alias entry.
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// NewReconciler builds a Reconciler from a variant → canonical alias table.
func NewReconciler(aliases map[string]string) *Reconciler {
	m := make(map[string]string, len(aliases))
	for variant, canonical := range aliases {
		m[foldName(variant)] = canonical
	}
	return &Reconciler{aliases: m}
}

// LoadAliases reads a variant → canonical alias table from a YAML file.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "demographics: read alias table %s", path)
	}
	var aliases map[string]string
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, eris.Wrapf(err, "demographics: parse alias table %s", path)
	}
	return aliases, nil
}

// Canonicalize returns the canonical spelling for a raw source name, or the
// name unchanged when no alias entry exists.
func (r *Reconciler) Canonicalize(raw string) string {
	if canonical, ok := r.aliases[foldName(raw)]; ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// Unmatched returns, sorted, the demographic-source names whose canonical
// form is absent from the yield dataset's country vocabulary. This is an
// advisory diagnostic: downstream joins simply exclude these rows.
func (r *Reconciler) Unmatched(names []string, vocabulary []string) []string {
	vocab := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		vocab[v] = struct{}{}
	}

	seen := make(map[string]struct{})
	var unmatched []string
	for _, name := range names {
		if _, ok := vocab[r.Canonicalize(name)]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unmatched = append(unmatched, name)
	}
	sort.Strings(unmatched)
	return unmatched
}
