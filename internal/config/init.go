package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/options"
	"git.home.luguber.info/inful/docconvert/internal/resources"
)

const initHeader = "# docconvert configuration\n# Relative paths are resolved against project_root (default: this file's directory).\n"

// Example returns the configuration written by Init.
func Example() Config {
	standalone := true
	return Config{
		Version: CurrentVersion,
		Source: SourceConfig{
			Directory: "src/docs",
		},
		Output: OutputConfig{
			Directory:           "build/docs",
			PreserveDirectories: true,
		},
		Render: RenderConfig{
			Engine:       "asciidoctor",
			Command:      DefaultCommand,
			Backend:      "html5",
			Doctype:      DefaultDoctype,
			HeaderFooter: &standalone,
		},
		Attributes: AttributesConfig{
			ImagesDir: DefaultImagesDir,
			Values: []options.AttributePair{
				{Key: "toc", Value: "true"},
				{Key: "icons", Value: "font"},
			},
		},
		Resources: []resources.Spec{
			{Directory: "images", Includes: []string{"*.png", "*.jpg", "*.svg"}},
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.InternalError("failed to marshal config").WithCause(err).Build()
	}

	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o644); err != nil {
		return errors.FileSystemError("failed to write config file").WithCause(err).WithContext("path", configPath).Build()
	}
	return nil
}
