package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docconvert/internal/config"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/observability"
	"git.home.luguber.info/inful/docconvert/internal/options"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "DOCCONVERT_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"docconvert.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	LogFormat   string           `name:"log-format" help:"Log output format (text|json); defaults to the configured format"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format after each run"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Convert  ConvertCmd  `cmd:"" help:"Convert the configured source tree"`
	Discover DiscoverCmd `cmd:"" help:"List the documents a conversion would render and where"`
	Watch    WatchCmd    `cmd:"" help:"Convert, then convert again whenever the source tree changes"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level, _ := parseLogLevel(c.Verbose)
	logger := observability.NewLogger(os.Stderr, level, c.LogFormat)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

// parseLogLevel honours -v first, then DOCCONVERT_LOG_LEVEL. The second
// result reports whether either was set, in which case the configured level
// does not apply.
func parseLogLevel(verbose bool) (slog.Level, bool) {
	if verbose {
		return slog.LevelDebug, true
	}
	if raw := strings.TrimSpace(os.Getenv(LogLevelEnv)); raw != "" {
		return config.NormalizeLogLevel(raw).Slog(), true
	}
	return slog.LevelInfo, false
}

// loadConfig reads the configuration file. A missing file at the default
// path yields defaults rooted at the working directory so that flags alone
// can drive a run.
func (c *CLI) loadConfig() (*config.Config, error) {
	if _, err := os.Stat(c.Config); os.IsNotExist(err) && c.Config == config.DefaultPath {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, errors.InternalError("cannot determine working directory").WithCause(wdErr).Build()
		}
		slog.Debug("No configuration file, using defaults", slog.String("path", c.Config))
		return config.Default(wd), nil
	}
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	c.applyConfiguredLogging(cfg)
	return cfg, nil
}

func (c *CLI) applyConfiguredLogging(cfg *config.Config) {
	format := c.LogFormat
	if format == "" {
		format = string(cfg.Logging.Format)
	}
	level, fixed := parseLogLevel(c.Verbose)
	if !fixed {
		level = cfg.Logging.Level.Slog()
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, format))
}

// metricsFile prefers the flag over metrics.textfile.
func (c *CLI) metricsFile(cfg *config.Config) string {
	if c.MetricsFile != "" {
		return c.MetricsFile
	}
	return cfg.MetricsTextfile()
}

// RunFlags override configuration values for a single invocation. Paths
// given here are relative to the working directory.
type RunFlags struct {
	Source     string   `short:"s" name:"source" help:"Source directory (overrides source.directory)"`
	Output     string   `short:"o" name:"output" help:"Output directory (overrides output.directory)"`
	Document   string   `short:"d" name:"document" help:"Convert only this document, relative to the source directory"`
	Extensions string   `short:"e" name:"extensions" help:"Comma separated file suffixes to convert"`
	Preserve   bool     `name:"preserve-directories" help:"Mirror the source hierarchy in the output"`
	Engine     string   `name:"engine" help:"Renderer engine (asciidoctor|goldmark)"`
	Backend    string   `short:"b" name:"backend" help:"Output backend"`
	Attributes []string `short:"a" name:"attribute" help:"Document attribute as key=value or key (repeatable)"`
}

// Apply writes the overrides into cfg and revalidates it.
func (f *RunFlags) Apply(cfg *config.Config) error {
	var err error
	if cfg.Source.Directory, err = override(cfg.Source.Directory, f.Source); err != nil {
		return err
	}
	if cfg.Output.Directory, err = override(cfg.Output.Directory, f.Output); err != nil {
		return err
	}
	if f.Document != "" {
		cfg.Source.Document = f.Document
	}
	if f.Extensions != "" {
		cfg.Source.Extensions = f.Extensions
	}
	if f.Preserve {
		cfg.Output.PreserveDirectories = true
	}
	if f.Engine != "" {
		previous := cfg.Render.Engine
		cfg.Render.Engine = strings.ToLower(strings.TrimSpace(f.Engine))
		// A backend left at the old engine's default follows the new engine.
		if f.Backend == "" && cfg.Render.Backend == config.DefaultBackendFor(previous) {
			cfg.Render.Backend = config.DefaultBackendFor(cfg.Render.Engine)
		}
	}
	if f.Backend != "" {
		cfg.Render.Backend = strings.ToLower(strings.TrimSpace(f.Backend))
	}
	pairs, err := ParseAttributes(f.Attributes)
	if err != nil {
		return err
	}
	cfg.Attributes.Values = append(cfg.Attributes.Values, pairs...)
	return cfg.Validate()
}

func override(current, flag string) (string, error) {
	if flag == "" {
		return current, nil
	}
	abs, err := filepath.Abs(flag)
	if err != nil {
		return "", errors.PathError("cannot resolve path").WithCause(err).WithContext("path", flag).Build()
	}
	return abs, nil
}

// ParseAttributes turns key=value arguments into ordered pairs. A bare key
// sets a true flag and key! an explicit false one.
func ParseAttributes(args []string) ([]options.AttributePair, error) {
	pairs := make([]options.AttributePair, 0, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		switch {
		case !found && strings.HasSuffix(key, "!"):
			key, value = strings.TrimSuffix(key, "!"), "false"
		case !found:
			value = "true"
		}
		if key == "" {
			return nil, errors.ValidationError(fmt.Sprintf("invalid attribute %q", arg)).Build()
		}
		pairs = append(pairs, options.AttributePair{Key: key, Value: value})
	}
	return pairs, nil
}
