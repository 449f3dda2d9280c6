package config

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docconvert/internal/engine"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
)

// normalize canonicalizes enumerated fields before defaults are applied.
// Unknown engines are left as written so that validation reports them;
// unknown logging values fall back to their defaults with a warning.
func (c *Config) normalize() {
	c.Version = strings.TrimSpace(c.Version)
	c.Render.Backend = strings.ToLower(strings.TrimSpace(c.Render.Backend))
	c.Render.Doctype = strings.ToLower(strings.TrimSpace(c.Render.Doctype))
	if name, err := engine.ParseName(c.Render.Engine); err == nil && strings.TrimSpace(c.Render.Engine) != "" {
		c.Render.Engine = string(name)
	}

	if raw := string(c.Logging.Level); raw != "" {
		lvl := NormalizeLogLevel(raw)
		if !logLevelNormalizer.Valid(raw) {
			warnUnknown("logging.level", raw, string(lvl))
		}
		c.Logging.Level = lvl
	}
	if raw := string(c.Logging.Format); raw != "" {
		f := NormalizeLogFormat(raw)
		if !logFormatNormalizer.Valid(raw) {
			warnUnknown("logging.format", raw, string(f))
		}
		c.Logging.Format = f
	}
}

func warnUnknown(field, value, def string) {
	slog.Warn("Unknown configuration value, using default",
		slog.String("field", field),
		slog.String("value", value),
		logfields.Name(def))
}
