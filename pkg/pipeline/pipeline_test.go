package pipeline

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/relcat/pkg/cache"
	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/manifest"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"yaml", false},
		{"toml", false},
		{"xml", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", opts.DataDir, DefaultDataDir)
	}
	if opts.RepositoryURL != DefaultRepositoryURL {
		t.Errorf("RepositoryURL = %q", opts.RepositoryURL)
	}
	if opts.Concurrency != DefaultConcurrency || opts.Retries != DefaultRetries || opts.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("numeric defaults not applied: %+v", opts)
	}
	if got := opts.Coordinates("orm"); got.ArtifactID != "hibernate-core" {
		t.Errorf("Coordinates(orm) = %+v", got)
	}
	if opts.IsStrict() {
		t.Error("development profile should not be strict")
	}
}

func TestOptionsProjectsOverride(t *testing.T) {
	opts := Options{Projects: map[string]catalog.ProjectCoordinates{
		"orm":  {GroupID: "org.example", ArtifactID: "core"},
		"ogm":  {},
		"jpa2": {GroupID: "org.example", ArtifactID: "jpa"},
	}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if got := opts.Coordinates("orm"); got.GroupID != "org.example" {
		t.Errorf("orm not overridden: %+v", got)
	}
	if opts.Coordinates("ogm").Known() {
		t.Error("empty entry should remove the ogm default")
	}
	if !opts.Coordinates("jpa2").Known() || !opts.Coordinates("search").Known() {
		t.Error("added and untouched defaults should be known")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad repository", Options{RepositoryURL: "file:///tmp/repo"}},
		{"negative retries", Options{Retries: -1}},
		{"negative concurrency", Options{Concurrency: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() expected error")
			}
		})
	}
}

func TestIsStrict(t *testing.T) {
	tests := []struct {
		profile string
		strict  bool
		want    bool
	}{
		{"development", false, false},
		{"staging", false, false},
		{"production", false, true},
		{"development", true, true},
	}
	for _, tt := range tests {
		o := Options{Profile: tt.profile, Strict: tt.strict}
		if got := o.IsStrict(); got != tt.want {
			t.Errorf("IsStrict(profile=%s, strict=%v) = %v, want %v", tt.profile, tt.strict, got, tt.want)
		}
	}
}

const ormPOM = `<project xmlns="http://maven.apache.org/POM/4.0.0">
  <properties><jpa.version>2.1</jpa.version></properties>
  <dependencies>
    <dependency><groupId>org.hibernate.javax.persistence</groupId><artifactId>jpa-api</artifactId><version>${jpa.version}</version></dependency>
  </dependencies>
</project>`

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"orm/releases/5.1/5.1.0.Final.yml":        "stable: true\n",
		"orm/releases/5.0/5.0.0.Final.yml":        "",
		"orm/releases/5.0/series.yml":             "displayed: false\n",
		"beanvalidation/releases/2.0.0.Final.yml": "version_family: \"2.0\"\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newRepo(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/org/hibernate/hibernate-core/5.1.0.Final/hibernate-core-5.1.0.Final.pom" {
			w.Write([]byte(ormPOM))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunnerExecute(t *testing.T) {
	var calls atomic.Int32
	repo := newRepo(t, &calls)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil)
	opts := Options{DataDir: writeData(t), RepositoryURL: repo.URL, HTTPTimeout: time.Second}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.RunID == "" {
		t.Error("RunID not set")
	}
	if result.Stats.Projects != 2 || result.Stats.Releases != 3 || result.Stats.Attached != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}

	orm, _ := result.Catalog.Project("orm")
	if orm.SortedReleases[0].Version != "5.1.0.Final" {
		t.Fatalf("catalog not sorted: %v", orm.SortedReleases[0].Version)
	}
	deps := orm.Releases["5.1.0.Final"].Dependencies
	if got := deps.Version("org.hibernate.javax.persistence", "jpa-api"); got != "2.1" {
		t.Errorf("jpa-api = %q, want 2.1", got)
	}
	if orm.Releases["5.0.0.Final"].Dependencies != nil {
		t.Error("hidden series should not be resolved")
	}

	// Second run is served from the file cache.
	before := calls.Load()
	again, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if calls.Load() != before {
		t.Errorf("second run made %d requests, want 0", calls.Load()-before)
	}
	if again.Stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", again.Stats.CacheHits)
	}
}

func TestRunnerExecuteStrictness(t *testing.T) {
	var calls atomic.Int32
	repo := newRepo(t, &calls)
	data := writeData(t)
	projects := map[string]catalog.ProjectCoordinates{
		"orm": {GroupID: "org.hibernate", ArtifactID: "missing-core"},
	}

	permissive := Options{DataDir: data, RepositoryURL: repo.URL, Projects: projects, Retries: 1}
	result, err := NewRunner(nil, nil).Execute(context.Background(), permissive)
	if err != nil {
		t.Fatalf("permissive Execute() error: %v", err)
	}
	orm, _ := result.Catalog.Project("orm")
	if deps := orm.Releases["5.1.0.Final"].Dependencies; deps == nil || deps.Len() != 0 {
		t.Errorf("permissive run should attach empty dependencies, got %+v", deps)
	}
	if result.Stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", result.Stats.Failures)
	}

	strict := Options{DataDir: data, RepositoryURL: repo.URL, Projects: projects, Retries: 1, Profile: ProfileProduction}
	_, err = NewRunner(nil, nil).Execute(context.Background(), strict)
	var fe *manifest.FetchError
	if !stderrors.As(err, &fe) {
		t.Fatalf("strict Execute() error = %v, want *FetchError", err)
	}
	if !errors.Is(err, errors.ErrCodeManifestUnavailable) {
		t.Errorf("code = %s, want MANIFEST_UNAVAILABLE", errors.GetCode(err))
	}
}

func TestRunnerBuildFatalDescriptor(t *testing.T) {
	data := writeData(t)
	if err := os.WriteFile(filepath.Join(data, "orm", "releases", "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRunner(nil, nil).Execute(context.Background(), Options{DataDir: data, SkipDependencies: true})
	if !errors.IsFatal(err) {
		t.Errorf("Execute() error = %v, want fatal descriptor error", err)
	}
}

func TestRunnerResolve(t *testing.T) {
	var calls atomic.Int32
	repo := newRepo(t, &calls)

	c, _ := manifest.ParseCoordinate("org.hibernate:hibernate-core:5.1.0.Final")
	deps, err := NewRunner(nil, nil).Resolve(context.Background(), c, Options{RepositoryURL: repo.URL})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if deps.Value("jpa.version") != "2.1" {
		t.Errorf("Value(jpa.version) = %q", deps.Value("jpa.version"))
	}
}
