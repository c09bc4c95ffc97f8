// Package wordpress adapts the WordPress.org plugin directory to
// [deps.Registry].
//
// [deps.Registry]: github.com/matzehuels/plugdeps/pkg/deps#Registry
package wordpress

import (
	"context"

	"github.com/matzehuels/plugdeps/pkg/deps"
	"github.com/matzehuels/plugdeps/pkg/integrations/wporg"
)

// Registry queries the plugin directory through a [wporg.Client].
type Registry struct{ *wporg.Client }

var _ deps.Registry = Registry{}

// NewRegistry creates a Registry for the directory at baseURL.
// An empty baseURL selects [wporg.DefaultBaseURL].
func NewRegistry(baseURL string) Registry {
	return Registry{wporg.NewClient(baseURL)}
}

// Query implements [deps.Registry].
func (r Registry) Query(ctx context.Context, slug string, fields deps.Fields) (*deps.Metadata, error) {
	p, err := r.FetchPlugin(ctx, slug, wporg.Fields{
		ShortDescription: fields.ShortDescription,
		Icons:            fields.Icons,
	})
	if err != nil {
		return nil, err
	}

	var extra map[string]any
	if p.Author != "" || p.Requires != "" || len(p.RequiresPlugins) > 0 {
		extra = make(map[string]any)
		if p.Author != "" {
			extra["author"] = p.Author
		}
		if p.Requires != "" {
			extra["requires"] = p.Requires
		}
		if len(p.RequiresPlugins) > 0 {
			extra["requires_plugins"] = p.RequiresPlugins
		}
	}

	return &deps.Metadata{
		Slug:             p.Slug,
		Name:             p.Name,
		Version:          p.Version,
		ShortDescription: p.ShortDescription,
		Icons:            p.Icons,
		Homepage:         p.Homepage,
		Extra:            extra,
	}, nil
}
