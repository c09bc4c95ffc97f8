package plugin

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/plugdeps/pkg/errors"
)

// DirSource enumerates plugins installed in a directory. PHP files in the
// root and in its immediate subdirectories are inspected; a file is a plugin
// if its header declares a non-empty "Plugin Name".
type DirSource struct {
	root string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Root returns the scanned directory.
func (s *DirSource) Root() string { return s.root }

// Components scans the directory. Unreadable plugin files are skipped; only a
// missing or unreadable root is an error.
func (s *DirSource) Components(ctx context.Context) ([]Component, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "plugins directory %s", s.root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read plugins directory %s", s.root)
	}

	var out []Component
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if hidden(e.Name()) {
			continue
		}
		if e.IsDir() {
			out = append(out, s.scanSubdir(e.Name())...)
			continue
		}
		if c, ok := s.load(e.Name()); ok {
			out = append(out, c)
		}
	}

	slices.SortFunc(out, func(a, b Component) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *DirSource) scanSubdir(name string) []Component {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if err != nil {
		return nil
	}
	var out []Component
	for _, e := range entries {
		if e.IsDir() || hidden(e.Name()) {
			continue
		}
		if c, ok := s.load(name + "/" + e.Name()); ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *DirSource) load(id string) (Component, bool) {
	if !strings.HasSuffix(id, ".php") {
		return Component{}, false
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(id)))
	if err != nil {
		return Component{}, false
	}
	defer f.Close()

	headers, err := ParseHeaders(f)
	if err != nil || headers[HeaderPluginName] == "" {
		return Component{}, false
	}
	return Component{ID: id, Name: headers[HeaderPluginName], Headers: headers}, true
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
