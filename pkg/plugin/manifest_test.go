package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/plugdeps/pkg/errors"
)

const sampleManifest = `
[[plugin]]
file = "my-addon/my-addon.php"
name = "My Addon"
version = "1.2.0"
requires_plugins = "woocommerce, jetpack"

[[plugin]]
file = "woocommerce/woocommerce.php"
name = "WooCommerce"

[plugin.headers]
"Requires PHP" = "7.4"
`

func TestParseManifest(t *testing.T) {
	got, err := ParseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("ParseManifest() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d components, want 2", len(got))
	}

	addon := got[0]
	if addon.ID != "my-addon/my-addon.php" || addon.Name != "My Addon" {
		t.Errorf("component[0] = %+v", addon)
	}
	if addon.Header(HeaderRequiresPlugins) != "woocommerce, jetpack" {
		t.Errorf("Requires Plugins = %q", addon.Header(HeaderRequiresPlugins))
	}
	if addon.Header(HeaderVersion) != "1.2.0" {
		t.Errorf("Version = %q", addon.Header(HeaderVersion))
	}
	if got[1].Header("Requires PHP") != "7.4" {
		t.Errorf("extra header not carried: %+v", got[1].Headers)
	}
	if got[1].Header(HeaderRequiresPlugins) != "" {
		t.Errorf("unexpected Requires Plugins on component[1]")
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", "[[plugin]\nfile ="},
		{"missing file", "[[plugin]]\nname = \"x\""},
		{"traversal", "[[plugin]]\nfile = \"../x.php\""},
		{"not php", "[[plugin]]\nfile = \"x/readme.txt\""},
		{"duplicate", "[[plugin]]\nfile = \"a.php\"\n[[plugin]]\nfile = \"a.php\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidManifest)
			}
		})
	}
}

func TestParseManifestEmpty(t *testing.T) {
	got, err := ParseManifest(nil)
	if err != nil {
		t.Fatalf("ParseManifest(nil) error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d components, want 0", len(got))
	}
}

func TestManifestSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewManifestSource(path).Components(context.Background())
	if err != nil {
		t.Fatalf("Components() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d components, want 2", len(got))
	}

	_, err = NewManifestSource(path + ".missing").Components(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}
