package config

import (
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/docconvert/internal/convert"
	"git.home.luguber.info/inful/docconvert/internal/options"
)

// Resolve anchors a relative path at the project root. Empty stays empty.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectRoot, path)
}

// MetricsTextfile returns the resolved metrics textfile path, if any.
func (c *Config) MetricsTextfile() string {
	return c.Resolve(c.Metrics.Textfile)
}

// Settings converts the configuration into orchestrator run settings.
// Resource directories stay relative; the mirror anchors them at the
// source directory.
func (c *Config) Settings() (convert.Settings, error) {
	regs, err := c.ExtensionRegistrations()
	if err != nil {
		return convert.Settings{}, err
	}
	return convert.Settings{
		SourceDir:           c.Resolve(c.Source.Directory),
		OutputDir:           c.Resolve(c.Output.Directory),
		ProjectRoot:         c.ProjectRoot,
		Document:            c.Source.Document,
		ExtensionList:       c.Source.Extensions,
		PreserveDirectories: c.Output.PreserveDirectories,
		BaseDir:             c.Resolve(c.BaseDir),
		RelativeBaseDir:     c.RelativeBaseDir,
		Options: options.Static{
			Backend:           c.Render.Backend,
			Doctype:           c.Render.Doctype,
			Compact:           c.Render.Compact,
			HeaderFooter:      c.Render.Standalone(),
			TemplateEngine:    c.Render.TemplateEngine,
			TemplateDir:       c.Resolve(c.Render.TemplateDir),
			Eruby:             c.Render.Eruby,
			ImagesDir:         c.Attributes.ImagesDir,
			SourceHighlighter: c.Attributes.SourceHighlighter,
			EmbedAssets:       c.Attributes.EmbedAssets,
		},
		Attributes: slices.Clone(c.Attributes.Values),
		Resources:  slices.Clone(c.Resources),
		Extensions: regs,
		Requires:   slices.Clone(c.Requires),
	}, nil
}
