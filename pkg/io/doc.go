// Package io writes resolution passes as JSON reports.
//
// # Format
//
//	{
//	  "pass_id": "3f0c…",
//	  "satisfied": false,
//	  "plugins": [
//	    {"id": "a/a.php", "name": "A", "slug": "a", "requires": ["x", "y"], "required": false}
//	  ],
//	  "required": ["x", "y"],
//	  "missing": ["x", "y"],
//	  "required_by": {"x": ["A"]},
//	  "metadata": {"x": {"slug": "x", "name": "Plugin X"}}
//	}
//
// Plugins are ordered by identifier and slug lists are sorted. "required_by"
// only lists slugs that have registry metadata, matching
// [deps.Resolution.DependentsOf].
//
// Use [WriteJSON] for any io.Writer or [ExportJSON] for a file path.
// [ReadJSON] decodes a report for tools that consume saved output.
//
// [deps.Resolution.DependentsOf]: github.com/matzehuels/plugdeps/pkg/deps#Resolution.DependentsOf
package io
