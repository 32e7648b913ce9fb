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
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/relcat/internal/config"
	"github.com/matzehuels/relcat/pkg/cache"
	"github.com/matzehuels/relcat/pkg/errors"
	pkgio "github.com/matzehuels/relcat/pkg/io"
	"github.com/matzehuels/relcat/pkg/manifest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testData writes a small data directory and returns its path.
func testData(t *testing.T) string {
	t.Helper()
	data := filepath.Join(t.TempDir(), "_data")
	writeFile(t, filepath.Join(data, "orm", "releases", "5.1", "5.1.0.Final.yml"), "date: 2016-02-10\nstable: true\n")
	writeFile(t, filepath.Join(data, "orm", "releases", "5.2", "5.2.0.CR1.yml"), "")
	writeFile(t, filepath.Join(data, "orm", "releases", "4.3", "series.yml"), "displayed: false\n")
	writeFile(t, filepath.Join(data, "orm", "releases", "4.3", "4.3.11.Final.yml"), "")
	return data
}

// runCLI executes the root command with args in an isolated working and
// configuration directory and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	c.Err = io.Discard
	c.workDir = t.TempDir()

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"build", "export", "resolve", "graph", "browse", "serve", "publish", "config", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	data := testData(t)
	out, err := runCLI(t, "build", "--no-deps", "--data-dir", data, "--cache-backend", "none")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	for _, want := range []string{"orm", "5.2.0.CR1", "1 projects, 3 series, 3 releases"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildCommandInvalidDescriptor(t *testing.T) {
	data := testData(t)
	writeFile(t, filepath.Join(data, "orm", "releases", "5.1", "notes.txt"), "")

	_, err := runCLI(t, "build", "--no-deps", "--data-dir", data, "--cache-backend", "none")
	if err == nil {
		t.Fatal("build should fail on a non-yml descriptor")
	}
	if got := ExitCode(err); got != ExitDataError {
		t.Errorf("ExitCode() = %d, want %d", got, ExitDataError)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"cancelled", fmt.Errorf("build: %w", context.Canceled), ExitCancelled},
		{"invalid config", errors.New(errors.ErrCodeInvalidConfig, "bad"), ExitDataError},
		{"manifest unavailable", errors.New(errors.ErrCodeManifestUnavailable, "gone"), ExitFailure},
		{"plain", io.ErrUnexpectedEOF, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	data := testData(t)
	out, err := runCLI(t, "export", "--no-deps", "--data-dir", data, "--cache-backend", "none")
	if err != nil {
		t.Fatalf("export error: %v", err)
	}

	cat, err := pkgio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	p, ok := cat.Project("orm")
	if !ok {
		t.Fatal("project orm missing from export")
	}
	if got := p.SortedReleases[0].Version; got != "5.2.0.CR1" {
		t.Errorf("newest release = %s, want 5.2.0.CR1", got)
	}
}

func TestExportCommandToFile(t *testing.T) {
	data := testData(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if _, err := runCLI(t, "export", "--no-deps", "--data-dir", data, "--cache-backend", "none", "-o", path); err != nil {
		t.Fatalf("export error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "release_series:") {
		t.Errorf("export is not YAML:\n%s", raw)
	}
}

func TestExportCommandRejectsFormat(t *testing.T) {
	_, err := runCLI(t, "export", "--format", "xml", "--cache-backend", "none")
	if err == nil {
		t.Fatal("export should reject xml")
	}
}

func TestResolveCommand(t *testing.T) {
	const pom = `<project>
  <groupId>org.example</groupId>
  <artifactId>lib</artifactId>
  <version>1.0</version>
  <properties><junit.version>4.12</junit.version></properties>
  <dependencies>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>${junit.version}</version></dependency>
  </dependencies>
</project>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/org/example/lib/1.0/lib-1.0.pom" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, pom)
	}))
	defer ts.Close()

	out, err := runCLI(t, "resolve", "org.example:lib:1.0", "--json",
		"--repository-url", ts.URL, "--cache-backend", "none")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	var deps manifest.Dependencies
	if err := json.Unmarshal([]byte(out), &deps); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got := deps.Version("junit", "junit"); got != "4.12" {
		t.Errorf("junit version = %q, want 4.12", got)
	}
}

func TestResolveCommandStrict(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := runCLI(t, "resolve", "org.example:missing:1.0", "--strict",
		"--repository-url", ts.URL, "--cache-backend", "none")
	if err == nil {
		t.Fatal("strict resolve of a missing manifest should fail")
	}

	out, err := runCLI(t, "resolve", "org.example:missing:1.0",
		"--repository-url", ts.URL, "--cache-backend", "none")
	if err != nil {
		t.Fatalf("permissive resolve error: %v", err)
	}
	if !strings.Contains(out, "no resolvable dependencies") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "config", "--profile", "production", "--concurrency", "8")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	for _, want := range []string{"profile: production", "concurrency: 8", "hibernate-core"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib-1.0.pom"), "<project/>")
	writeFile(t, filepath.Join(dir, "lib-1.1.pom"), "<project/>")

	out, err := runCLI(t, "cache", "path", "--cache-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	out, err = runCLI(t, "cache", "clear", "--cache-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 2 cached manifests") {
		t.Errorf("cache clear output = %q", out)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}

	_, err = runCLI(t, "cache", "clear", "--cache-backend", "none")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("cache clear on none backend: err = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestNewCache(t *testing.T) {
	cfg := config.Default()
	cfg.CacheDir = t.TempDir()

	mc, err := newCache(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mc.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T", mc)
	}

	cfg.CachePrefix = "relcat"
	mc, err = newCache(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mc.(*cache.Scoped); !ok {
		t.Errorf("prefixed backend = %T, want *cache.Scoped", mc)
	}

	cfg.CacheBackend = config.CacheNone
	mc, err = newCache(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mc.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T", mc)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":             "json",
		"catalog.json": "json",
		"catalog.yml":  "yaml",
		"catalog.YAML": "yaml",
		"catalog.toml": "toml",
	}
	for path, want := range tests {
		if got := formatFromPath(path); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFormatReleaseAge(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		date string
		want string
	}{
		{"2024-06-15", "today"},
		{"2024-06-05", "10d ago"},
		{"2024-03-15", "3mo ago"},
		{"2016-02-10", "Feb 2016"},
		{"soon", "soon"},
	}
	for _, tt := range tests {
		if got := formatReleaseAge(tt.date, now); got != tt.want {
			t.Errorf("formatReleaseAge(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestSeriesListModel(t *testing.T) {
	data := testData(t)
	out, err := runCLI(t, "export", "--no-deps", "--data-dir", data, "--cache-backend", "none")
	if err != nil {
		t.Fatal(err)
	}
	cat, err := pkgio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}

	m := NewSeriesListModel(cat)
	if len(m.Rows) != 2 {
		t.Fatalf("visible rows = %d, want 2 (4.3 is hidden)", len(m.Rows))
	}
	if m.Rows[0].Series.Version != "5.2" {
		t.Errorf("first row = %s, want newest series 5.2", m.Rows[0].Series.Version)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	m = next.(SeriesListModel)
	if len(m.Rows) != 3 {
		t.Errorf("rows with hidden = %d, want 3", len(m.Rows))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SeriesListModel)
	if !m.Detail || m.Cursor != 1 {
		t.Fatalf("Detail = %v, Cursor = %d", m.Detail, m.Cursor)
	}
	if view := m.View(); !strings.Contains(view, "5.1.0.Final") || !strings.Contains(view, "stable") {
		t.Errorf("detail view:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}
