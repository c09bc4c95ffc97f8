package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plugdeps/internal/config"
	"github.com/matzehuels/plugdeps/pkg/deps"
	"github.com/matzehuels/plugdeps/pkg/errors"
	"github.com/matzehuels/plugdeps/pkg/integrations"
	plio "github.com/matzehuels/plugdeps/pkg/io"
)

const testManifest = `
[[plugin]]
file = "a/a.php"
name = "A"
requires_plugins = "x, y"

[[plugin]]
file = "b/b.php"
name = "B"
requires_plugins = "x, Bad Slug"

[[plugin]]
file = "y.php"
name = "Y"
`

// stubRegistry knows only "x" and "y".
var stubRegistry = deps.RegistryFunc(func(ctx context.Context, s string, f deps.Fields) (*deps.Metadata, error) {
	switch s {
	case "x", "y":
		return &deps.Metadata{Slug: s, Name: "Plugin " + strings.ToUpper(s), Version: "1.0"}, nil
	}
	return nil, fmt.Errorf("%s: not found", s)
})

type testEnv struct {
	cli      *CLI
	manifest string
	envFile  string
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	manifest := filepath.Join(dir, "plugins.toml")
	if err := os.WriteFile(manifest, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(dir, "empty.env")
	if err := os.WriteFile(envFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	c := New(&logs, log.DebugLevel)
	c.newRegistry = func(*config.Config) deps.Registry { return stubRegistry }
	return &testEnv{cli: c, manifest: manifest, envFile: envFile, logs: &logs}
}

// run executes the CLI and returns what commands wrote to their output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	prev := stdout
	stdout = &out
	defer func() { stdout = prev }()

	root := e.cli.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--manifest", e.manifest, "--env-file", e.envFile}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"report", "missing", "required-by", "graph", "serve", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	for _, flag := range []string{"config", "plugins-dir", "manifest", "registry-url", "timeout", "workers", "offline"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestReportJSON(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "report", "--json")
	if err != nil {
		t.Fatalf("report error: %v", err)
	}

	rep, err := plio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if !slices.Equal(rep.Missing, []string{"x"}) {
		t.Errorf("Missing = %v, want [x]", rep.Missing)
	}
	if !slices.Equal(rep.RequiredBy["x"], []string{"A", "B"}) {
		t.Errorf("RequiredBy[x] = %v", rep.RequiredBy["x"])
	}
	if len(rep.Plugins) != 3 {
		t.Errorf("Plugins = %v", rep.Plugins)
	}
}

func TestReportHuman(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "report")
	if err != nil {
		t.Fatalf("report error: %v", err)
	}
	for _, want := range []string{"Installed plugins", "Required by: A", "required-by x", "1 missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReportOutputFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "report.json")
	if _, err := env.run(t, "report", "-o", path); err != nil {
		t.Fatalf("report error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("report file not written: %v", err)
	}
}

func TestMissing(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "missing", "--json")
	if err != nil {
		t.Fatalf("missing error: %v", err)
	}
	var got []string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !slices.Equal(got, []string{"x"}) {
		t.Errorf("missing = %v, want [x]", got)
	}
}

func TestMissingCheck(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "missing", "--check")
	if !errors.Is(err, errors.ErrCodePluginNotFound) {
		t.Errorf("missing --check error = %v, want PLUGIN_NOT_FOUND", err)
	}
}

func TestRequiredBy(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "required-by", "x", "--json")
	if err != nil {
		t.Fatalf("required-by error: %v", err)
	}
	var got []string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("required-by x = %v, want [A B]", got)
	}
}

func TestRequiredByOffline(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "--offline", "required-by", "x", "--json")
	if err != nil {
		t.Fatalf("required-by error: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("offline required-by = %s, want []", out)
	}
}

func TestRequiredByInvalidSlug(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "required-by", "Not-Valid")
	if !errors.Is(err, errors.ErrCodeInvalidSlug) {
		t.Errorf("error = %v, want INVALID_SLUG", err)
	}
}

func TestGraphDOT(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "graph")
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("graph output is not DOT:\n%s", out)
	}
	if !strings.Contains(out, `"plugin:a/a.php" -> "plugin:y.php";`) {
		t.Errorf("missing edge to installed plugin:\n%s", out)
	}
}

func TestGraphBadFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "graph", "--format", "png")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestCompleteRequiredSlugs(t *testing.T) {
	env := newTestEnv(t)
	env.cli.newRegistry = func(*config.Config) deps.Registry {
		t.Error("completion must not query the registry")
		return nil
	}

	cmd, _, err := env.cli.RootCommand().Find([]string{"required-by"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags([]string{"--manifest", env.manifest, "--env-file", env.envFile}); err != nil {
		t.Fatal(err)
	}
	cmd.SetContext(context.Background())

	tests := []struct {
		prefix string
		args   []string
		want   []string
	}{
		{prefix: "", want: []string{"x", "y"}},
		{prefix: "y", want: []string{"y"}},
		{prefix: "z", want: nil},
		{prefix: "", args: []string{"x"}, want: nil},
	}
	for _, tt := range tests {
		got, directive := env.cli.completeRequiredSlugs(cmd, tt.args, tt.prefix)
		if !slices.Equal(got, tt.want) {
			t.Errorf("completeRequiredSlugs(%v, %q) = %v, want %v", tt.args, tt.prefix, got, tt.want)
		}
		if directive != cobra.ShellCompDirectiveNoFileComp {
			t.Errorf("directive = %v, want NoFileComp", directive)
		}
	}
}

func TestCompletionScript(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "plugdeps") {
		t.Errorf("bash completion does not mention plugdeps:\n%.200s", out)
	}
}

func TestMissingManifest(t *testing.T) {
	env := newTestEnv(t)
	env.manifest = filepath.Join(t.TempDir(), "nope.toml")
	if _, err := env.run(t, "missing"); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestVerboseLogsFetchFailures(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "report", "--json"); err != nil {
		t.Fatal(err)
	}
	// "Bad Slug" is dropped before any query, so every fetch succeeds.
	if strings.Contains(env.logs.String(), "fetch failed") {
		t.Errorf("unexpected fetch failure in logs:\n%s", env.logs.String())
	}
	if !strings.Contains(env.logs.String(), "Resolved 3 plugins") {
		t.Errorf("missing progress log:\n%s", env.logs.String())
	}
}

func serveTestRouter(t *testing.T) http.Handler {
	t.Helper()
	env := newTestEnv(t)
	cfg := config.DefaultConfig()
	cfg.Manifest = env.manifest
	return env.cli.router(&cfg, prometheus.NewRegistry())
}

func TestServeEndpoints(t *testing.T) {
	router := serveTestRouter(t)

	tests := []struct {
		path   string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{"/missing", http.StatusOK, func(t *testing.T, body map[string]any) {
			if fmt.Sprint(body["missing"]) != "[x]" || body["satisfied"] != false {
				t.Errorf("body = %v", body)
			}
		}},
		{"/required-by/x", http.StatusOK, func(t *testing.T, body map[string]any) {
			if fmt.Sprint(body["required_by"]) != "[A B]" {
				t.Errorf("body = %v", body)
			}
			if body["metadata"] == nil {
				t.Error("metadata missing for resolvable slug")
			}
		}},
		{"/required-by/unknown", http.StatusOK, func(t *testing.T, body map[string]any) {
			if fmt.Sprint(body["required_by"]) != "[]" {
				t.Errorf("body = %v", body)
			}
		}},
		{"/required-by/Bad%20Slug", http.StatusBadRequest, nil},
		{"/required/y.php", http.StatusOK, func(t *testing.T, body map[string]any) {
			if body["required"] != true {
				t.Errorf("body = %v", body)
			}
		}},
		{"/required/a/a.php", http.StatusOK, func(t *testing.T, body map[string]any) {
			if body["required"] != false || body["id"] != "a/a.php" {
				t.Errorf("body = %v", body)
			}
		}},
		{"/required/a/b/c.php", http.StatusBadRequest, nil},
		{"/report", http.StatusOK, func(t *testing.T, body map[string]any) {
			if body["pass_id"] == "" {
				t.Errorf("body = %v", body)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestServeComponents(t *testing.T) {
	rec := httptest.NewRecorder()
	serveTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/components", nil))

	var got []componentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("components = %v", got)
	}
	y := got[2]
	if y.ID != "y.php" || !y.Required || !slices.Equal(y.RequiredBy, []string{"A"}) {
		t.Errorf("y = %+v", y)
	}
}

func TestServeMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	serveTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid slug", errors.ValidateSlug("Bad Slug"), http.StatusBadRequest},
		{"plugins dir missing", errors.New(errors.ErrCodeFileNotFound, "plugins directory"), http.StatusServiceUnavailable},
		{"registry status", fmt.Errorf("%w: status 500", integrations.ErrNetwork), http.StatusBadGateway},
		{"pass deadline", fmt.Errorf("resolve: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"uncoded", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorStatus(tt.err); got != tt.want {
				t.Errorf("errorStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	writeError(rec, req, fmt.Errorf("resolve: %w", context.DeadlineExceeded))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusGatewayTimeout || body["code"] != string(errors.ErrCodeTimeout) {
		t.Errorf("status = %d, body = %v", rec.Code, body)
	}

	rec = httptest.NewRecorder()
	writeError(rec, req, fmt.Errorf("boom"))
	body = nil
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != string(errors.ErrCodeInternal) {
		t.Errorf("code = %q, want INTERNAL_ERROR", body["code"])
	}
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&logs, log.DebugLevel))
	req := httptest.NewRequest(http.MethodGet, "/report", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	writeJSON(rec, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(logs.String(), "Encode response failed") || !strings.Contains(logs.String(), "/report") {
		t.Errorf("encode failure not logged:\n%s", logs.String())
	}
}
