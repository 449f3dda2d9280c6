package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	eerrors "git.home.luguber.info/inful/docconvert/internal/engine/errors"
	"git.home.luguber.info/inful/docconvert/internal/extensions"
)

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// Registry maps extension implementation names onto goldmark extenders.
// Every kind is accepted; goldmark has no per-kind extension points.
type Registry struct {
	names     []string
	extenders []goldmark.Extender
}

// Names returns the registered extension names.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Extenders returns the extenders to build goldmark with.
func (r *Registry) Extenders() []goldmark.Extender {
	return append([]goldmark.Extender(nil), r.extenders...)
}

func (r *Registry) add(kind extensions.Kind, _ string, impl string) error {
	key := strings.ToLower(strings.TrimSpace(impl))
	ext, ok := extensionRegistry[key]
	if !ok {
		return fmt.Errorf("%w: %s %q", eerrors.ErrUnknownExtension, kind, impl)
	}
	for _, x := range r.extenders {
		if x == ext {
			return nil
		}
	}
	r.names = append(r.names, key)
	r.extenders = append(r.extenders, ext)
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
