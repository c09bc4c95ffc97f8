package plugin

import (
	"context"
	"testing"
)

func TestScan(t *testing.T) {
	components := []Component{
		{ID: "a/a.php", Name: "A", Headers: map[string]string{HeaderRequiresPlugins: "x, y"}},
		{ID: "b/b.php", Name: "B", Headers: map[string]string{HeaderRequiresPlugins: "x"}},
		{ID: "c/c.php", Name: "C", Headers: map[string]string{HeaderRequiresPlugins: "   "}},
		{ID: "d/d.php", Name: "D", Headers: map[string]string{HeaderVersion: "1.0"}},
		{ID: "e.php", Name: "E"},
	}

	raw := Scan(components)

	if len(raw) != 2 {
		t.Fatalf("Scan() returned %d entries, want 2: %v", len(raw), raw)
	}
	if raw["a/a.php"] != "x, y" {
		t.Errorf("raw[a] = %q, want %q", raw["a/a.php"], "x, y")
	}
	if raw["b/b.php"] != "x" {
		t.Errorf("raw[b] = %q, want %q", raw["b/b.php"], "x")
	}
	for _, id := range []string{"c/c.php", "d/d.php", "e.php"} {
		if _, ok := raw[id]; ok {
			t.Errorf("Scan() should omit %s", id)
		}
	}
}

func TestScanEmpty(t *testing.T) {
	if raw := Scan(nil); len(raw) != 0 {
		t.Errorf("Scan(nil) = %v, want empty", raw)
	}
}

func TestScanDuplicateIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		components []Component
		want       map[string]string
	}{
		{
			name: "first declaration wins",
			components: []Component{
				{ID: "a/a.php", Name: "First", Headers: map[string]string{HeaderRequiresPlugins: "x"}},
				{ID: "a/a.php", Name: "Second", Headers: map[string]string{HeaderRequiresPlugins: "y"}},
			},
			want: map[string]string{"a/a.php": "x"},
		},
		{
			name: "first without header hides later header",
			components: []Component{
				{ID: "a/a.php", Name: "First"},
				{ID: "a/a.php", Name: "Second", Headers: map[string]string{HeaderRequiresPlugins: "y"}},
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.components)
			if len(got) != len(tt.want) {
				t.Fatalf("Scan() = %v, want %v", got, tt.want)
			}
			for id, raw := range tt.want {
				if got[id] != raw {
					t.Errorf("raw[%s] = %q, want %q", id, got[id], raw)
				}
			}
		})
	}
}

func TestScanKeepsRawValue(t *testing.T) {
	// Scanning performs no validation; sanitization happens later.
	c := Component{ID: "a.php", Headers: map[string]string{HeaderRequiresPlugins: " Foo, bar!! "}}
	if got := Scan([]Component{c})["a.php"]; got != " Foo, bar!! " {
		t.Errorf("raw = %q, want untouched header", got)
	}
}

func TestComponentDisplayName(t *testing.T) {
	if got := (Component{ID: "a/a.php", Name: "Alpha"}).DisplayName(); got != "Alpha" {
		t.Errorf("DisplayName() = %q, want Alpha", got)
	}
	if got := (Component{ID: "a/a.php"}).DisplayName(); got != "a/a.php" {
		t.Errorf("DisplayName() = %q, want identifier fallback", got)
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{{ID: "a.php"}, {ID: "b.php"}}
	got, err := src.Components(context.Background())
	if err != nil {
		t.Fatalf("Components() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a.php" {
		t.Errorf("Components() = %v", got)
	}
}
