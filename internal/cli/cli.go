package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/relcat/internal/config"
	"github.com/matzehuels/relcat/pkg/buildinfo"
	"github.com/matzehuels/relcat/pkg/cache"
	"github.com/matzehuels/relcat/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Log file rotation limits for --log-file.
const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output; Err receives logs and progress.
	Out io.Writer
	Err io.Writer

	configFile string
	workDir    string
	cfg        *config.Config
	logFile    io.WriteCloser
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "relcat builds release catalogs from YAML descriptors",
		Long: `relcat reads per-project release descriptors from a data directory,
orders releases newest first and attaches the Maven dependencies of the
newest release of every displayed series.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "configuration file (default: ./relcat.yaml, then ~/.config/relcat/relcat.yaml)")
	pf.String("data-dir", pipeline.DefaultDataDir, "directory holding <project>/releases trees")
	pf.String("profile", pipeline.DefaultProfile, "build profile; production makes manifest failures fatal")
	pf.Bool("strict", false, "fail on the first unavailable manifest")
	pf.String("log-file", "", "also write logs to this file, rotated by size")
	pf.String("cache-backend", config.CacheFile, "manifest cache: file, redis, none")
	pf.String("cache-dir", "", "manifest cache directory for the file backend")
	pf.String("redis-url", "", "redis URL for the redis backend")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addPipelineFlags registers the flags of commands that resolve manifests.
func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("repository-url", pipeline.DefaultRepositoryURL, "Maven repository base URL")
	f.Int("concurrency", pipeline.DefaultConcurrency, "series resolved in parallel per project")
	f.Duration("http-timeout", pipeline.DefaultHTTPTimeout, "timeout of one repository request")
	f.Int("retries", pipeline.DefaultRetries, "attempts per repository request")
}

// setup loads the configuration for cmd and opens the log file.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		c.workDir = wd
	}

	loader := config.NewLoader(c.workDir, c.configFile)
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	if used := loader.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded configuration", "file", used)
	}

	if cfg.LogFile != "" {
		c.logFile = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
		}
		c.Logger.SetOutput(io.MultiWriter(c.Err, c.logFile))
	}
	return nil
}

func (c *CLI) teardown() error {
	if c.logFile == nil {
		return nil
	}
	c.Logger.SetOutput(c.Err)
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root pre-run hook.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache backend.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	mc, err := newCache(ctx, c.config())
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(mc, c.Logger), nil
}

// newCache builds the manifest cache selected by cfg.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	var mc cache.Cache
	switch cfg.CacheBackend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		mc = rc
	default:
		fc, err := cache.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		mc = fc
	}
	if cfg.CachePrefix != "" {
		mc = cache.NewScoped(mc, cfg.CachePrefix)
	}
	return mc, nil
}

// pipelineOptions returns the pipeline options of the loaded configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	return c.config().PipelineOptions(c.Logger)
}
