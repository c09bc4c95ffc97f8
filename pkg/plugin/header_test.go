package plugin

import (
	"strings"
	"testing"
)

const samplePlugin = `<?php
/**
 * Plugin Name:       My Addon
 * Plugin URI:        https://example.com/my-addon
 * Description:       Adds things.
 * Version:           1.2.0
 * Requires at least: 6.5
 * Requires PHP:      7.4
 * Author:            Jane Doe
 * Author URI:        https://example.com
 * Requires Plugins:  woocommerce, jetpack
 */

function my_addon() {}
`

func TestParseHeaders(t *testing.T) {
	h, err := ParseHeaders(strings.NewReader(samplePlugin))
	if err != nil {
		t.Fatalf("ParseHeaders() error: %v", err)
	}

	want := map[string]string{
		HeaderPluginName:      "My Addon",
		"Plugin URI":          "https://example.com/my-addon",
		HeaderDescription:     "Adds things.",
		HeaderVersion:         "1.2.0",
		"Requires at least":   "6.5",
		"Requires PHP":        "7.4",
		HeaderAuthor:          "Jane Doe",
		"Author URI":          "https://example.com",
		HeaderRequiresPlugins: "woocommerce, jetpack",
	}
	for k, v := range want {
		if h[k] != v {
			t.Errorf("header %q = %q, want %q", k, h[k], v)
		}
	}
}

func TestParseHeadersVariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
		key  string
		want string
	}{
		{"hash comment", "<?php\n# Plugin Name: Hash\n", HeaderPluginName, "Hash"},
		{"slash comment", "<?php\n// Plugin Name: Slashes\n", HeaderPluginName, "Slashes"},
		{"same line as php tag", "<?php /* Plugin Name: Inline */", HeaderPluginName, "Inline"},
		{"case insensitive", "/*\nplugin name: lower\n*/", HeaderPluginName, "lower"},
		{"closing php tag", "<?php\n// Plugin Name: Closed ?>\n", HeaderPluginName, "Closed"},
		{"carriage returns", "<?php\r/*\r Plugin Name: Mac\r Requires Plugins: a, b\r*/", HeaderRequiresPlugins, "a, b"},
		{"windows newlines", "<?php\r\n/*\r\n * Requires Plugins: x\r\n */", HeaderRequiresPlugins, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHeaders(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("ParseHeaders() error: %v", err)
			}
			if h[tt.key] != tt.want {
				t.Errorf("header %q = %q, want %q", tt.key, h[tt.key], tt.want)
			}
		})
	}
}

func TestParseHeadersOmitsEmpty(t *testing.T) {
	h, err := ParseHeaders(strings.NewReader("<?php\n/*\n * Plugin Name: X\n * Requires Plugins:\n */"))
	if err != nil {
		t.Fatalf("ParseHeaders() error: %v", err)
	}
	if _, ok := h[HeaderRequiresPlugins]; ok {
		t.Errorf("empty header should be omitted, got %q", h[HeaderRequiresPlugins])
	}
}

func TestParseHeadersReadLimit(t *testing.T) {
	src := "<?php\n" + strings.Repeat("// filler\n", headerReadLimit/10+1) + "// Plugin Name: Too Late\n"
	h, err := ParseHeaders(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseHeaders() error: %v", err)
	}
	if _, ok := h[HeaderPluginName]; ok {
		t.Error("headers past the read limit should be ignored")
	}
}
