package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", "/var/cache/test")

	cfg, err := NewLoader(t.TempDir(), "").Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DataDir != "_data" || cfg.Profile != "development" || cfg.CacheBackend != CacheFile {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.CacheDir != filepath.Join("/var/cache/test", "relcat", "poms") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.Retries != 3 || cfg.Concurrency != 4 {
		t.Errorf("numeric defaults = %v, %d, %d", cfg.HTTPTimeout, cfg.Retries, cfg.Concurrency)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeConfig(t, dir, `
data_dir: site/_data
profile: staging
http_timeout: 30s
projects:
  orm:
    group_id: org.example
    artifact_id: example-core
  ogm: {}
`)
	t.Setenv("RELCAT_PROFILE", "production")
	t.Setenv("RELCAT_RETRIES", "5")

	l := NewLoader(dir, "")
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DataDir != "site/_data" {
		t.Errorf("DataDir = %q, want file value", cfg.DataDir)
	}
	if cfg.Profile != "production" || cfg.Retries != 5 {
		t.Errorf("env overrides not applied: profile=%q retries=%d", cfg.Profile, cfg.Retries)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if got := cfg.Projects["orm"]; got.ArtifactID != "example-core" {
		t.Errorf("projects.orm = %+v", got)
	}
	if l.ConfigFileUsed() == "" {
		t.Error("ConfigFileUsed() empty")
	}

	opts := cfg.PipelineOptions(nil)
	if !opts.IsStrict() {
		t.Error("production profile should give strict pipeline options")
	}
}

func TestLoadFlagsOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeConfig(t, dir, "data_dir: from-file\nconcurrency: 2\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data-dir", "", "")
	fs.Int("concurrency", 0, "")
	fs.Bool("strict", false, "")
	if err := fs.Parse([]string{"--data-dir", "from-flag", "--strict"}); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, "")
	if err := l.BindFlags(fs); err != nil {
		t.Fatalf("BindFlags() error: %v", err)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != "from-flag" || !cfg.Strict {
		t.Errorf("flags not applied: data_dir=%q strict=%v", cfg.DataDir, cfg.Strict)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("unset flag should not override file: concurrency=%d", cfg.Concurrency)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := NewLoader(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml")).Load()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.CacheBackend = "memcached" }},
		{"redis without url", func(c *Config) { c.CacheBackend = CacheRedis }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"zero retries", func(c *Config) { c.Retries = 0 }},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }},
		{"half project", func(c *Config) {
			c.Projects = map[string]catalog.ProjectCoordinates{"orm": {GroupID: "org.hibernate"}}
		}},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
