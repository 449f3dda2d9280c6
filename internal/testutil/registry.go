package testutil

import "git.home.luguber.info/inful/docconvert/internal/extensions"

// Registry is an extensions.Registry that only remembers what was registered.
type Registry struct {
	Registrations []extensions.Registration
}

func (r *Registry) add(kind extensions.Kind, name, impl string) error {
	r.Registrations = append(r.Registrations, extensions.Registration{Kind: kind, Name: name, Implementation: impl})
	return nil
}

func (r *Registry) Preprocessor(impl string) error {
	return r.add(extensions.KindPreprocessor, "", impl)
}

func (r *Registry) Treeprocessor(impl string) error {
	return r.add(extensions.KindTreeprocessor, "", impl)
}

func (r *Registry) Postprocessor(impl string) error {
	return r.add(extensions.KindPostprocessor, "", impl)
}

func (r *Registry) Block(name, impl string) error {
	return r.add(extensions.KindBlock, name, impl)
}

func (r *Registry) BlockMacro(name, impl string) error {
	return r.add(extensions.KindBlockMacro, name, impl)
}

func (r *Registry) InlineMacro(name, impl string) error {
	return r.add(extensions.KindInlineMacro, name, impl)
}

func (r *Registry) IncludeProcessor(impl string) error {
	return r.add(extensions.KindIncludeProcessor, "", impl)
}
