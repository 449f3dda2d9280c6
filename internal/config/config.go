// Package config loads the docconvert YAML configuration and turns it into
// run settings for the conversion orchestrator.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docconvert/internal/extensions"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/options"
	"git.home.luguber.info/inful/docconvert/internal/resources"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "docconvert.yaml"

// CurrentVersion is the configuration schema version.
const CurrentVersion = "1.0"

// Config represents the application configuration
type Config struct {
	Version         string            `yaml:"version"`
	ProjectRoot     string            `yaml:"project_root,omitempty"`
	Source          SourceConfig      `yaml:"source"`
	Output          OutputConfig      `yaml:"output"`
	BaseDir         string            `yaml:"base_dir,omitempty"`
	RelativeBaseDir bool              `yaml:"relative_base_dir,omitempty"`
	Render          RenderConfig      `yaml:"render"`
	Attributes      AttributesConfig  `yaml:"attributes"`
	Resources       []resources.Spec  `yaml:"resources,omitempty"`
	Extensions      []ExtensionConfig `yaml:"extensions,omitempty"`
	Requires        []string          `yaml:"requires,omitempty"`
	Logging         LoggingConfig     `yaml:"logging"`
	Metrics         MetricsConfig     `yaml:"metrics"`
}

// SourceConfig selects the documents to convert.
type SourceConfig struct {
	Directory  string `yaml:"directory"`
	Document   string `yaml:"document,omitempty"`   // single document relative to Directory
	Extensions string `yaml:"extensions,omitempty"` // comma separated suffixes
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory           string `yaml:"directory"`
	PreserveDirectories bool   `yaml:"preserve_directories"`
}

// RenderConfig holds the renderer settings shared by every document.
type RenderConfig struct {
	Engine         string `yaml:"engine"`
	Command        string `yaml:"command,omitempty"`
	Backend        string `yaml:"backend"`
	Doctype        string `yaml:"doctype"`
	Compact        bool   `yaml:"compact"`
	HeaderFooter   *bool  `yaml:"header_footer,omitempty"`
	Eruby          string `yaml:"eruby,omitempty"`
	TemplateEngine string `yaml:"template_engine,omitempty"`
	TemplateDir    string `yaml:"template_dir,omitempty"`
}

// Standalone reports whether documents render with header and footer.
func (r RenderConfig) Standalone() bool {
	return r.HeaderFooter == nil || *r.HeaderFooter
}

// AttributesConfig holds the document attributes.
type AttributesConfig struct {
	ImagesDir         string                  `yaml:"images_dir"`
	SourceHighlighter string                  `yaml:"source_highlighter,omitempty"`
	EmbedAssets       bool                    `yaml:"embed_assets"`
	Values            []options.AttributePair `yaml:"values,omitempty"`
}

// ExtensionConfig registers one renderer extension. Kind is kept raw so that
// validation can report the offending entry.
type ExtensionConfig struct {
	Kind           string `yaml:"kind"`
	Name           string `yaml:"name,omitempty"`
	Implementation string `yaml:"implementation"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // node-exporter textfile target
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.ConfigError("invalid configuration path").WithCause(err).WithContext("path", configPath).Build()
	}
	if err := loadEnvFiles(filepath.Dir(abs)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithCause(err).WithContext("path", configPath).Build()
		}
		return nil, errors.ConfigError("failed to read config file").WithCause(err).WithContext("path", configPath).Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.ConfigError("failed to unmarshal config").WithCause(err).WithContext("path", configPath).Build()
	}

	cfg.normalize()
	cfg.applyDefaults(filepath.Dir(abs))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration holding only defaults, rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{}
	cfg.applyDefaults(dir)
	return cfg
}

// ExtensionRegistrations parses the configured extensions. Call after Validate.
func (c *Config) ExtensionRegistrations() ([]extensions.Registration, error) {
	regs := make([]extensions.Registration, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		kind, err := extensions.ParseKind(e.Kind)
		if err != nil {
			return nil, errors.ValidationError("invalid extension kind").WithCause(err).WithContext("kind", e.Kind).Build()
		}
		regs = append(regs, extensions.Registration{Kind: kind, Name: e.Name, Implementation: e.Implementation})
	}
	return regs, nil
}
