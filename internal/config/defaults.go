package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/docconvert/internal/engine"
	"git.home.luguber.info/inful/docconvert/internal/engine/asciidoctor"
)

const (
	DefaultBackend   = asciidoctor.DefaultBackend
	DefaultDoctype   = "article"
	DefaultImagesDir = "images"
	DefaultCommand   = "asciidoctor"
)

// applyDefaults fills unset fields. dir is the directory holding the
// configuration file and anchors a relative project root.
func (c *Config) applyDefaults(dir string) {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	switch {
	case c.ProjectRoot == "":
		c.ProjectRoot = dir
	case !filepath.IsAbs(c.ProjectRoot):
		c.ProjectRoot = filepath.Join(dir, c.ProjectRoot)
	}
	c.ProjectRoot = filepath.Clean(c.ProjectRoot)

	if c.Render.Engine == "" {
		c.Render.Engine = string(engine.Asciidoctor)
	}
	if c.Render.Command == "" {
		c.Render.Command = DefaultCommand
	}
	if c.Render.Backend == "" {
		c.Render.Backend = DefaultBackendFor(c.Render.Engine)
	}
	if c.Render.Doctype == "" {
		c.Render.Doctype = DefaultDoctype
	}
	if c.Render.HeaderFooter == nil {
		standalone := true
		c.Render.HeaderFooter = &standalone
	}
	if c.Attributes.ImagesDir == "" {
		c.Attributes.ImagesDir = DefaultImagesDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}

// DefaultBackendFor returns the default backend of the named engine. Unknown
// names fall back to DefaultBackend and are reported by Validate.
func DefaultBackendFor(engineName string) string {
	n, err := engine.ParseName(engineName)
	if err != nil {
		return DefaultBackend
	}
	return engine.DefaultBackend(n)
}
