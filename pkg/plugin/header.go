package plugin

import (
	"io"
	"regexp"
	"strings"
)

// headerReadLimit bounds how much of a file is inspected for headers.
const headerReadLimit = 8 * 1024

// KnownHeaders lists the header fields ParseHeaders extracts.
var KnownHeaders = []string{
	HeaderPluginName,
	"Plugin URI",
	HeaderVersion,
	HeaderDescription,
	HeaderAuthor,
	"Author URI",
	"Text Domain",
	"Requires at least",
	"Requires PHP",
	HeaderRequiresPlugins,
}

var (
	headerPatterns = compileHeaderPatterns(KnownHeaders)
	trailerRe      = regexp.MustCompile(`\s*(?:\*/|\?>).*`)
)

func compileHeaderPatterns(names []string) map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(names))
	for _, name := range names {
		m[name] = regexp.MustCompile(`(?mi)^(?:[ \t]*<\?php)?[ \t/*#@]*` + regexp.QuoteMeta(name) + `:(.*)$`)
	}
	return m
}

// ParseHeaders reads the leading comment block of a plugin file and returns
// the known header fields it declares. Header names match case-insensitively
// and are returned in canonical form. Absent headers are omitted.
func ParseHeaders(r io.Reader) (map[string]string, error) {
	buf, err := io.ReadAll(io.LimitReader(r, headerReadLimit))
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(buf), "\r", "\n")

	out := make(map[string]string)
	for _, name := range KnownHeaders {
		m := headerPatterns[name].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := cleanHeaderValue(m[1]); v != "" {
			out[name] = v
		}
	}
	return out, nil
}

func cleanHeaderValue(s string) string {
	return strings.TrimSpace(trailerRe.ReplaceAllString(s, ""))
}
