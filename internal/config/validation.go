package config

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/docconvert/internal/engine"
	"git.home.luguber.info/inful/docconvert/internal/extensions"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/resources"
)

// Validate checks the configuration after normalization and defaults.
// Missing source and output directories are not reported here; the
// orchestrator raises them as missing parameters so that command line
// overrides can still supply them.
func (c *Config) Validate() error {
	errs := validation.Errors{}
	field := func(key string, value any, rules ...validation.Rule) {
		if err := validation.Validate(value, rules...); err != nil {
			errs[key] = err
		}
	}

	field("version", c.Version, validation.Required, validation.In(CurrentVersion, "1"))
	field("render.engine", c.Render.Engine, validation.Required, validation.By(validEngine))
	field("render.backend", c.Render.Backend, validation.Required, validation.By(c.validBackend))
	field("render.doctype", c.Render.Doctype, validation.Required)
	field("requires", c.Requires, validation.Each(validation.Required))
	field("logging.level", string(c.Logging.Level), validation.By(func(value any) error {
		if !logLevelNormalizer.Valid(value.(string)) {
			return validation.NewError("docconvert.config.log_level_invalid", "must be one of debug, info, warn, error")
		}
		return nil
	}))
	field("logging.format", string(c.Logging.Format), validation.By(func(value any) error {
		if !logFormatNormalizer.Valid(value.(string)) {
			return validation.NewError("docconvert.config.log_format_invalid", "must be text or json")
		}
		return nil
	}))

	for i, pair := range c.Attributes.Values {
		field(fmt.Sprintf("attributes.values[%d].key", i), pair.Key, validation.Required)
	}
	for i, spec := range c.Resources {
		field(fmt.Sprintf("resources[%d]", i), spec, validation.By(validResource))
	}
	for i, ext := range c.Extensions {
		field(fmt.Sprintf("extensions[%d]", i), ext, validation.By(validExtension))
	}

	if len(errs) > 0 {
		return errors.ValidationError("invalid configuration").WithCause(errs).Build()
	}
	return nil
}

func validEngine(value any) error {
	if _, err := engine.ParseName(value.(string)); err != nil {
		return validation.NewError("docconvert.config.engine_invalid", err.Error())
	}
	return nil
}

// validBackend rejects a backend the selected engine cannot produce. An
// unknown engine is reported under render.engine alone.
func (c *Config) validBackend(value any) error {
	n, err := engine.ParseName(c.Render.Engine)
	if err != nil {
		return nil
	}
	if !engine.SupportsBackend(n, value.(string)) {
		return validation.NewError("docconvert.config.backend_unsupported", fmt.Sprintf("backend %q is not supported by the %s engine", value, n))
	}
	return nil
}

func validResource(value any) error {
	spec := value.(resources.Spec)
	if strings.TrimSpace(spec.Directory) == "" {
		return validation.NewError("docconvert.config.resource_directory_required", "directory is required")
	}
	return nil
}

func validExtension(value any) error {
	ext := value.(ExtensionConfig)
	kind, err := extensions.ParseKind(ext.Kind)
	if err != nil {
		return validation.NewError("docconvert.config.extension_kind_invalid", fmt.Sprintf("unknown extension kind %q", ext.Kind))
	}
	if strings.TrimSpace(ext.Implementation) == "" {
		return validation.NewError("docconvert.config.extension_implementation_required", "implementation is required")
	}
	if kind.Named() && strings.TrimSpace(ext.Name) == "" {
		return validation.NewError("docconvert.config.extension_name_required", fmt.Sprintf("%s extensions need a name", kind))
	}
	return nil
}
