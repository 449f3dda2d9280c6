package asciidoctor

import (
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/docconvert/internal/extensions"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
)

// Registry collects the Ruby libraries passed with -r. Extensions register
// themselves when their library is required, so every kind maps to a require
// of its implementation; trigger names are part of the library itself.
type Registry struct {
	libraries []string
}

// Libraries returns the libraries to require, in first-seen order.
func (r *Registry) Libraries() []string {
	return slices.Clone(r.libraries)
}

func (r *Registry) require(lib string) {
	if lib == "" || slices.Contains(r.libraries, lib) {
		return
	}
	r.libraries = append(r.libraries, lib)
}

func (r *Registry) register(kind extensions.Kind, name, impl string) error {
	slog.Debug("Registering asciidoctor extension", logfields.Kind(string(kind)), logfields.Name(name), slog.String("implementation", impl))
	r.require(impl)
	return nil
}

func (r *Registry) Preprocessor(impl string) error {
	return r.register(extensions.KindPreprocessor, "", impl)
}

func (r *Registry) Treeprocessor(impl string) error {
	return r.register(extensions.KindTreeprocessor, "", impl)
}

func (r *Registry) Postprocessor(impl string) error {
	return r.register(extensions.KindPostprocessor, "", impl)
}

func (r *Registry) Block(name, impl string) error {
	return r.register(extensions.KindBlock, name, impl)
}

func (r *Registry) BlockMacro(name, impl string) error {
	return r.register(extensions.KindBlockMacro, name, impl)
}

func (r *Registry) InlineMacro(name, impl string) error {
	return r.register(extensions.KindInlineMacro, name, impl)
}

func (r *Registry) IncludeProcessor(impl string) error {
	return r.register(extensions.KindIncludeProcessor, "", impl)
}
