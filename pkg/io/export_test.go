package io

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/plugdeps/pkg/deps"
	"github.com/matzehuels/plugdeps/pkg/plugin"
)

func sampleResolution() *deps.Resolution {
	components := []plugin.Component{
		{ID: "b/b.php", Name: "B", Headers: map[string]string{plugin.HeaderRequiresPlugins: "x"}},
		{ID: "a/a.php", Name: "A", Headers: map[string]string{plugin.HeaderRequiresPlugins: "x, y"}},
		{ID: "y.php", Name: "Y"},
	}
	reg := deps.RegistryFunc(func(ctx context.Context, s string, f deps.Fields) (*deps.Metadata, error) {
		return &deps.Metadata{Slug: s, Name: "Plugin " + strings.ToUpper(s)}, nil
	})
	return deps.Resolve(context.Background(), components, reg, deps.Options{})
}

func TestWriteJSONRoundTrip(t *testing.T) {
	res := sampleResolution()

	var buf bytes.Buffer
	if err := WriteJSON(res, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	rep, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	if rep.PassID != res.PassID {
		t.Errorf("PassID = %q, want %q", rep.PassID, res.PassID)
	}
	if rep.Satisfied {
		t.Error("Satisfied = true, want false")
	}
	if !slices.Equal(rep.Missing, []string{"x"}) {
		t.Errorf("Missing = %v, want [x]", rep.Missing)
	}
	if !slices.Equal(rep.Required, []string{"x", "y"}) {
		t.Errorf("Required = %v", rep.Required)
	}
	if !slices.Equal(rep.RequiredBy["x"], []string{"A", "B"}) || !slices.Equal(rep.RequiredBy["y"], []string{"A"}) {
		t.Errorf("RequiredBy = %v", rep.RequiredBy)
	}
	if rep.Metadata["x"]["name"] != "Plugin X" {
		t.Errorf("Metadata[x] = %v", rep.Metadata["x"])
	}

	var ids []string
	for _, p := range rep.Plugins {
		ids = append(ids, p.ID)
	}
	if !slices.Equal(ids, []string{"a/a.php", "b/b.php", "y.php"}) {
		t.Errorf("plugin order = %v", ids)
	}
	if y := rep.Plugins[2]; y.Slug != "y" || !y.Required || y.Requires == nil {
		t.Errorf("plugin y = %+v", y)
	}
}

func TestWriteJSONEmptyLists(t *testing.T) {
	res := deps.Resolve(context.Background(), nil, nil, deps.Options{})

	var buf bytes.Buffer
	if err := WriteJSON(res, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"plugins": []`, `"missing": []`, `"required": []`, `"satisfied": true`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := ExportJSON(sampleResolution(), path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"required_by"`)) {
		t.Error("exported file has no required_by section")
	}
}

func TestExportJSONBadPath(t *testing.T) {
	if err := ExportJSON(sampleResolution(), filepath.Join(t.TempDir(), "missing", "dir", "r.json")); err == nil {
		t.Error("ExportJSON() should fail for a missing directory")
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON() should fail on truncated input")
	}
}
