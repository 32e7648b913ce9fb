// Package config loads relcat settings from relcat.yaml, RELCAT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/pipeline"
)

const (
	// AppName is used for configuration and cache directories.
	AppName = "relcat"

	// ConfigFileName is the configuration file looked up in the search path.
	ConfigFileName = "relcat.yaml"

	// EnvPrefix prefixes environment overrides, e.g. RELCAT_PROFILE.
	EnvPrefix = "RELCAT"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the effective relcat configuration.
type Config struct {
	DataDir       string        `mapstructure:"data_dir" yaml:"data_dir"`
	CacheDir      string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	CacheBackend  string        `mapstructure:"cache_backend" yaml:"cache_backend"`
	RedisURL      string        `mapstructure:"redis_url" yaml:"redis_url,omitempty"`
	CachePrefix   string        `mapstructure:"cache_prefix" yaml:"cache_prefix,omitempty"`
	RepositoryURL string        `mapstructure:"repository_url" yaml:"repository_url"`
	Profile       string        `mapstructure:"profile" yaml:"profile"`
	Strict        bool          `mapstructure:"strict" yaml:"strict"`
	Concurrency   int           `mapstructure:"concurrency" yaml:"concurrency"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	Retries       int           `mapstructure:"retries" yaml:"retries"`
	LogFile       string        `mapstructure:"log_file" yaml:"log_file,omitempty"`
	MongoURI      string        `mapstructure:"mongo_uri" yaml:"mongo_uri,omitempty"`
	MongoDatabase string        `mapstructure:"mongo_database" yaml:"mongo_database"`
	Listen        string        `mapstructure:"listen" yaml:"listen"`

	Projects map[string]catalog.ProjectCoordinates `mapstructure:"projects" yaml:"projects,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:       pipeline.DefaultDataDir,
		CacheDir:      DefaultCacheDir(),
		CacheBackend:  CacheFile,
		RepositoryURL: pipeline.DefaultRepositoryURL,
		Profile:       pipeline.DefaultProfile,
		Concurrency:   pipeline.DefaultConcurrency,
		HTTPTimeout:   pipeline.DefaultHTTPTimeout,
		Retries:       pipeline.DefaultRetries,
		MongoDatabase: AppName,
		Listen:        "127.0.0.1:8080",
	}
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.CacheBackend) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache_backend %q must be one of: file, redis, none", c.CacheBackend)
	}
	if c.CacheBackend == CacheRedis && c.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache_backend redis requires redis_url")
	}
	if c.CacheBackend == CacheFile {
		if err := errors.ValidatePath(c.CacheDir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache_dir")
		}
	}
	if c.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be at least 1")
	}
	if c.Retries < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "retries must be at least 1")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http_timeout must be positive")
	}
	for id, p := range c.Projects {
		if (p.GroupID == "") != (p.ArtifactID == "") {
			return errors.New(errors.ErrCodeInvalidConfig,
				"project %s needs both group_id and artifact_id, or neither to disable it", id)
		}
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline options.
func (c *Config) PipelineOptions(logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		DataDir:       c.DataDir,
		RepositoryURL: c.RepositoryURL,
		Profile:       c.Profile,
		Strict:        c.Strict,
		Concurrency:   c.Concurrency,
		HTTPTimeout:   c.HTTPTimeout,
		Retries:       c.Retries,
		Projects:      c.Projects,
		Logger:        logger,
	}
}

// DefaultCacheDir returns the manifest cache directory using the XDG
// standard (~/.cache/relcat/poms).
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName, "poms")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName, "poms")
	}
	return filepath.Join(home, ".cache", AppName, "poms")
}

// UserConfigDir returns $XDG_CONFIG_HOME/relcat (~/.config/relcat).
func UserConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}
