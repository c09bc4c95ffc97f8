package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/plugdeps/pkg/deps"
	"github.com/matzehuels/plugdeps/pkg/slug"
)

// Report is the JSON form of a resolution pass.
type Report struct {
	PassID     string                    `json:"pass_id"`
	Satisfied  bool                      `json:"satisfied"`
	Plugins    []Plugin                  `json:"plugins"`
	Required   []string                  `json:"required"`
	Missing    []string                  `json:"missing"`
	RequiredBy map[string][]string       `json:"required_by"`
	Metadata   map[string]map[string]any `json:"metadata"`
}

// Plugin is one installed plugin in a [Report].
type Plugin struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Requires []string `json:"requires"`
	Required bool     `json:"required"`
}

// NewReport snapshots res. Slices are never nil so the encoding is stable.
func NewReport(res *deps.Resolution) Report {
	g := res.Graph()
	r := Report{
		PassID:     res.PassID,
		Satisfied:  res.Satisfied(),
		Plugins:    []Plugin{},
		Required:   res.RequiredSlugs(),
		Missing:    res.MissingSlugs(),
		RequiredBy: res.RequiredBy(),
		Metadata:   make(map[string]map[string]any),
	}
	for _, c := range res.Components() {
		requires := g.Dependencies(c.ID)
		if requires == nil {
			requires = []string{}
		}
		r.Plugins = append(r.Plugins, Plugin{
			ID:       c.ID,
			Name:     c.DisplayName(),
			Slug:     slug.FromIdentifier(c.ID),
			Requires: requires,
			Required: res.IsRequired(c.ID),
		})
	}
	for s, m := range res.MetadataSet() {
		r.Metadata[s] = m.Map()
	}
	return r
}

// WriteJSON encodes the report for res and writes it to w.
// Map keys are sorted by encoding/json, so output is deterministic for a
// given pass.
func WriteJSON(res *deps.Resolution, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(res)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the report for res to a file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(res *deps.Resolution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(res, f)
}

// ReadJSON decodes a report previously written by [WriteJSON].
func ReadJSON(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &rep, nil
}
