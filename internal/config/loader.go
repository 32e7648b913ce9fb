package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/relcat/pkg/errors"
)

// Loader resolves the configuration file, environment and bound flags.
type Loader struct {
	workDir    string
	configFile string
	viper      *viper.Viper
}

// NewLoader creates a loader searching workDir and then the user config
// directory for relcat.yaml. A non-empty configFile is used instead of the
// search and must exist.
func NewLoader(workDir, configFile string) *Loader {
	return &Loader{
		workDir:    workDir,
		configFile: configFile,
		viper:      viper.New(),
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"data-dir":       "data_dir",
	"cache-dir":      "cache_dir",
	"cache-backend":  "cache_backend",
	"redis-url":      "redis_url",
	"repository-url": "repository_url",
	"profile":        "profile",
	"strict":         "strict",
	"concurrency":    "concurrency",
	"http-timeout":   "http_timeout",
	"retries":        "retries",
	"log-file":       "log_file",
	"mongo-uri":      "mongo_uri",
	"mongo-database": "mongo_database",
	"listen":         "listen",
}

// BindFlags lets flags from fs override file and environment values. Only
// flags present in fs and explicitly set by the user take effect.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration. A missing relcat.yaml in the search path is
// not an error; the defaults apply.
func (l *Loader) Load() (*Config, error) {
	v := l.viper
	v.SetConfigType("yaml")
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, ".yaml"))
		v.AddConfigPath(l.workDir)
		if dir := UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("cache_backend", defaults.CacheBackend)
	v.SetDefault("redis_url", defaults.RedisURL)
	v.SetDefault("cache_prefix", defaults.CachePrefix)
	v.SetDefault("repository_url", defaults.RepositoryURL)
	v.SetDefault("profile", defaults.Profile)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)
	v.SetDefault("retries", defaults.Retries)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("mongo_uri", defaults.MongoURI)
	v.SetDefault("mongo_database", defaults.MongoDatabase)
	v.SetDefault("listen", defaults.Listen)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read configuration")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file the configuration was read from, or "".
func (l *Loader) ConfigFileUsed() string {
	return l.viper.ConfigFileUsed()
}
