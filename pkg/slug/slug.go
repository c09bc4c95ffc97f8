package slug

import (
	"path"
	"regexp"
	"slices"
	"strings"
)

// Pattern matches a canonical slug.
var Pattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Valid reports whether s is a canonical slug. No normalization is applied.
func Valid(s string) bool {
	return Pattern.MatchString(s)
}

// Parse splits a raw "Requires Plugins" value on commas, trims each token and
// keeps the tokens that are valid slugs. Duplicates are removed, keeping the
// first occurrence. The result is never nil.
func Parse(raw string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	seen := make(map[string]bool)
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if !Valid(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Sanitized is the result of sanitizing every component's raw header.
type Sanitized struct {
	// PerComponent maps a component identifier to its slugs in declaration order.
	PerComponent map[string][]string
	// Required is the union of all PerComponent values, deduplicated and sorted.
	Required []string
}

// SanitizeAll applies [Parse] to each raw header and accumulates the global
// required set. Identifiers whose header sanitizes to nothing are kept with an
// empty slice.
func SanitizeAll(raw map[string]string) Sanitized {
	s := Sanitized{
		PerComponent: make(map[string][]string, len(raw)),
		Required:     []string{},
	}
	all := make(map[string]bool)
	for id, header := range raw {
		slugs := Parse(header)
		s.PerComponent[id] = slugs
		for _, sl := range slugs {
			all[sl] = true
		}
	}
	for sl := range all {
		s.Required = append(s.Required, sl)
	}
	slices.Sort(s.Required)
	return s
}

// FromIdentifier returns the slug an installed plugin satisfies.
// "akismet/akismet.php" becomes "akismet" and "hello.php" becomes "hello".
func FromIdentifier(id string) string {
	id = strings.TrimPrefix(strings.ReplaceAll(id, "\\", "/"), "/")
	if dir, _ := path.Split(id); dir != "" {
		return strings.Split(dir, "/")[0]
	}
	return strings.TrimSuffix(id, ".php")
}
