// Package engine selects the renderer adapter for a run.
package engine

import (
	"fmt"

	"git.home.luguber.info/inful/docconvert/internal/convert"
	"git.home.luguber.info/inful/docconvert/internal/engine/asciidoctor"
	eerrors "git.home.luguber.info/inful/docconvert/internal/engine/errors"
	"git.home.luguber.info/inful/docconvert/internal/engine/markdown"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/foundation/normalization"
)

// Name identifies a renderer adapter.
type Name string

const (
	Asciidoctor Name = "asciidoctor"
	Goldmark    Name = "goldmark"
)

var nameNormalizer = normalization.NewNormalizer("engine", map[string]Name{
	"asciidoctor": Asciidoctor,
	"goldmark":    Goldmark,
	"markdown":    Goldmark,
}, Asciidoctor)

// ParseName parses an engine name; empty selects asciidoctor.
func ParseName(raw string) (Name, error) {
	return nameNormalizer.Parse(raw)
}

// DefaultBackend returns the backend an engine converts to when none is
// configured.
func DefaultBackend(n Name) string {
	if n == Goldmark {
		return markdown.DefaultBackend
	}
	return asciidoctor.DefaultBackend
}

// SupportsBackend reports whether engine n can convert to backend. Asciidoctor
// accepts any name since converters can be added through requires.
func SupportsBackend(n Name, backend string) bool {
	if n == Goldmark {
		return markdown.SupportsBackend(backend)
	}
	return true
}

// Settings configures adapter construction.
type Settings struct {
	Command string // asciidoctor executable
}

// Factory returns the engine factory for name.
func Factory(name string, settings Settings) (convert.EngineFactory, error) {
	n, err := ParseName(name)
	if err != nil {
		return nil, errors.EngineError("unsupported engine").
			WithCause(fmt.Errorf("%w: %w", eerrors.ErrUnknownEngine, err)).
			WithContext("engine", name).
			Build()
	}
	switch n {
	case Goldmark:
		return func(requires []string) (convert.Engine, error) {
			e, err := markdown.New(requires)
			if err != nil {
				return nil, err
			}
			return e, nil
		}, nil
	default:
		return func(requires []string) (convert.Engine, error) {
			e, err := asciidoctor.New(settings.Command, requires)
			if err != nil {
				return nil, err
			}
			return e, nil
		}, nil
	}
}
