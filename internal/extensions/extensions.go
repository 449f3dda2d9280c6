// Package extensions forwards configured extension registrations to a
// renderer's registry. Identifiers are passed through unvalidated.
package extensions

import (
	"fmt"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/foundation/normalization"
)

// Kind identifies an extension point of the renderer.
type Kind string

const (
	KindPreprocessor     Kind = "preprocessor"
	KindTreeprocessor    Kind = "treeprocessor"
	KindPostprocessor    Kind = "postprocessor"
	KindBlock            Kind = "block"
	KindBlockMacro       Kind = "block_macro"
	KindInlineMacro      Kind = "inline_macro"
	KindIncludeProcessor Kind = "include_processor"
)

var kindNormalizer = normalization.NewNormalizer("extension kind", map[string]Kind{
	"preprocessor":      KindPreprocessor,
	"treeprocessor":     KindTreeprocessor,
	"tree_processor":    KindTreeprocessor,
	"postprocessor":     KindPostprocessor,
	"block":             KindBlock,
	"block_macro":       KindBlockMacro,
	"blockmacro":        KindBlockMacro,
	"inline_macro":      KindInlineMacro,
	"inlinemacro":       KindInlineMacro,
	"include_processor": KindIncludeProcessor,
	"includeprocessor":  KindIncludeProcessor,
}, "")

// ParseKind accepts kind names case-insensitively with '-' or '_' separators.
func ParseKind(raw string) (Kind, error) {
	k, err := kindNormalizer.Parse(raw)
	if err != nil {
		return "", err
	}
	if k == "" {
		return "", fmt.Errorf("extension kind is required")
	}
	return k, nil
}

// Named reports whether registrations of this kind carry a trigger name.
func (k Kind) Named() bool {
	return k == KindBlock || k == KindBlockMacro || k == KindInlineMacro
}

// Registration is one configured extension.
type Registration struct {
	Kind           Kind   `yaml:"kind"`
	Name           string `yaml:"name,omitempty"`
	Implementation string `yaml:"implementation"`
}

// Registry is the renderer's extension capability, one method per kind.
type Registry interface {
	Preprocessor(impl string) error
	Treeprocessor(impl string) error
	Postprocessor(impl string) error
	Block(name, impl string) error
	BlockMacro(name, impl string) error
	InlineMacro(name, impl string) error
	IncludeProcessor(impl string) error
}

// Apply dispatches every registration to the capability matching its kind.
func Apply(reg Registry, regs []Registration) error {
	for _, r := range regs {
		var err error
		switch r.Kind {
		case KindPreprocessor:
			err = reg.Preprocessor(r.Implementation)
		case KindTreeprocessor:
			err = reg.Treeprocessor(r.Implementation)
		case KindPostprocessor:
			err = reg.Postprocessor(r.Implementation)
		case KindBlock:
			err = reg.Block(r.Name, r.Implementation)
		case KindBlockMacro:
			err = reg.BlockMacro(r.Name, r.Implementation)
		case KindInlineMacro:
			err = reg.InlineMacro(r.Name, r.Implementation)
		case KindIncludeProcessor:
			err = reg.IncludeProcessor(r.Implementation)
		default:
			return errors.EngineError("unknown extension kind").
				WithContext("kind", string(r.Kind)).
				WithContext("implementation", r.Implementation).
				Build()
		}
		if err != nil {
			return errors.EngineError("extension registration failed").
				WithCause(err).
				WithContext("kind", string(r.Kind)).
				WithContext("implementation", r.Implementation).
				Build()
		}
	}
	return nil
}
