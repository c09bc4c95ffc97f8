package wporg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/matzehuels/plugdeps/pkg/buildinfo"
	"github.com/matzehuels/plugdeps/pkg/integrations"
)

// DefaultBaseURL is the public WordPress.org API host.
const DefaultBaseURL = "https://api.wordpress.org"

// Fields selects optional sections of the plugin_information response.
type Fields struct {
	ShortDescription bool
	Icons            bool
}

// PluginInfo holds the subset of plugin_information used for enrichment.
//
// Slug is the slug the directory answered with. It may differ from the
// queried slug and callers key results by it.
type PluginInfo struct {
	Slug             string            // Canonical slug returned by the directory
	Name             string            // Display name, HTML entities decoded
	Version          string            // Latest released version (may be empty)
	ShortDescription string            // One-line summary (empty unless requested)
	Icons            map[string]string // Icon URLs keyed by size ("1x", "2x", "svg")
	Homepage         string            // Plugin homepage (may be empty)
	Author           string            // Author markup stripped to text (may be empty)
	Requires         string            // Minimum core version (may be empty)
	RequiresPlugins  []string          // Dependencies declared in the directory listing
}

// Client provides access to the WordPress.org plugin directory API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a directory client for baseURL.
// An empty baseURL selects [DefaultBaseURL].
func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(integrations.NewClient(map[string]string{
		"Accept":     "application/json",
		"User-Agent": buildinfo.UserAgent(),
	}), baseURL)
}

// NewClientWithHTTP creates a directory client on top of an existing
// shared client. Tests use it to point at an httptest server.
func NewClientWithHTTP(c *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{Client: c, baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the API host this client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchPlugin retrieves plugin_information for slug.
//
// Returns:
//   - PluginInfo on success
//   - [integrations.ErrNotFound] if the directory has no such plugin
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - Other errors for JSON decoding failures
func (c *Client) FetchPlugin(ctx context.Context, slug string, fields Fields) (*PluginInfo, error) {
	var data infoResponse
	if err := c.Get(ctx, c.infoURL(slug, fields), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: wordpress.org plugin %s", err, slug)
		}
		return nil, err
	}
	if data.Error != "" {
		return nil, fmt.Errorf("%w: wordpress.org plugin %s: %s", integrations.ErrNotFound, slug, data.Error)
	}
	if data.Slug == "" {
		return nil, fmt.Errorf("wordpress.org plugin %s: response without slug", slug)
	}

	return &PluginInfo{
		Slug:             data.Slug,
		Name:             html.UnescapeString(data.Name),
		Version:          data.Version,
		ShortDescription: html.UnescapeString(data.ShortDescription),
		Icons:            data.Icons.m,
		Homepage:         data.Homepage,
		Author:           stripTags(data.Author),
		Requires:         data.Requires.s,
		RequiresPlugins:  data.RequiresPlugins,
	}, nil
}

func (c *Client) infoURL(slug string, fields Fields) string {
	q := url.Values{}
	q.Set("action", "plugin_information")
	q.Set("request[slug]", slug)
	if fields.ShortDescription {
		q.Set("request[fields][short_description]", "1")
	}
	if fields.Icons {
		q.Set("request[fields][icons]", "1")
	}
	return c.baseURL + "/plugins/info/1.2/?" + q.Encode()
}

type infoResponse struct {
	Error            string     `json:"error"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	Version          string     `json:"version"`
	Author           string     `json:"author"`
	Requires         flexString `json:"requires"`
	ShortDescription string     `json:"short_description"`
	Homepage         string     `json:"homepage"`
	Icons            iconMap    `json:"icons"`
	RequiresPlugins  []string   `json:"requires_plugins"`
}

// iconMap decodes "icons", which the API sends as [] when a plugin has none.
type iconMap struct{ m map[string]string }

func (i *iconMap) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("[")) {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if i.m == nil {
			i.m = make(map[string]string)
		}
		i.m[k] = s
	}
	return nil
}

// flexString accepts a string or false ("requires": false is common).
type flexString struct{ s string }

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.s = s
	}
	return nil
}

func stripTags(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
