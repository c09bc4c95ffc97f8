package errors

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/matzehuels/plugdeps/pkg/slug"
)

// ValidateSlug validates a slug given explicitly by a user, for example as a
// CLI argument or URL parameter. Unlike header parsing, which silently drops
// bad tokens, explicit input gets a descriptive error.
func ValidateSlug(s string) error {
	if s == "" {
		return New(ErrCodeInvalidSlug, "slug cannot be empty")
	}
	if len(s) > 200 {
		return New(ErrCodeInvalidSlug, "slug too long (max 200 characters)")
	}
	if strings.TrimSpace(s) != s {
		return New(ErrCodeInvalidSlug, "slug has surrounding whitespace: %q", s)
	}
	if !slug.Valid(s) {
		return New(ErrCodeInvalidSlug, "invalid slug %q (allowed: a-z, 0-9, -)", s)
	}
	return nil
}

// ValidatePath validates a plugin file identifier relative to the plugins
// directory. It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidatePluginFile validates a plugin identifier: a safe relative path to a
// PHP file, at most one directory deep.
func ValidatePluginFile(id string) error {
	if err := ValidatePath(id); err != nil {
		return err
	}
	if !strings.HasSuffix(id, ".php") {
		return New(ErrCodeInvalidPath, "plugin file must end in .php: %q", id)
	}
	if strings.Count(id, "/") > 1 {
		return New(ErrCodeInvalidPath, "plugin file must be at most one directory deep: %q", id)
	}
	return nil
}

// ValidateURL validates a registry base URL.
// It requires an http or https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}
	return nil
}
