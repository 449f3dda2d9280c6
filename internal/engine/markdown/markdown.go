// Package markdown renders Markdown documents to HTML in-process.
//
// Front matter is read with adrg/frontmatter and merged below the configured
// attributes. {name} references in the body are replaced with attribute
// values. With header_footer a complete HTML document is written, either from
// the built-in page or from document.html in the template directory.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	eerrors "git.home.luguber.info/inful/docconvert/internal/engine/errors"
	"git.home.luguber.info/inful/docconvert/internal/extensions"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/options"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "html5"

// Backends accepted by RenderFile.
var supportedBackends = map[string]bool{
	"html":   true,
	"html5":  true,
	"xhtml":  true,
	"xhtml5": true,
}

// SupportsBackend reports whether RenderFile accepts backend.
func SupportsBackend(backend string) bool {
	return supportedBackends[strings.ToLower(strings.TrimSpace(backend))]
}

// Engine converts Markdown with a goldmark instance built from the required
// and registered extensions.
type Engine struct {
	registry *Registry
}

// New creates an engine; requires name goldmark extensions (gfm, table, footnote, ...).
func New(requires []string) (*Engine, error) {
	reg := &Registry{}
	for _, name := range requires {
		if err := reg.add(extensions.KindTreeprocessor, "", name); err != nil {
			return nil, errors.EngineError("unknown goldmark extension").
				WithCause(err).
				WithContext("name", name).
				Build()
		}
	}
	return &Engine{registry: reg}, nil
}

// Registry returns the extension registry.
func (e *Engine) Registry() extensions.Registry {
	return e.registry
}

func (e *Engine) markdown(xhtml bool) goldmark.Markdown {
	rendererOptions := []renderer.Option{html.WithUnsafe()}
	if xhtml {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}
	return goldmark.New(
		goldmark.WithExtensions(e.registry.Extenders()...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

// RenderFile converts path and writes <ToDir>/<name>.html.
func (e *Engine) RenderFile(_ context.Context, path string, opts options.OptionSet) error {
	backend := strings.ToLower(opts.Backend())
	if !supportedBackends[backend] {
		return fmt.Errorf("%w: %w: %q", eerrors.ErrRenderFailed, eerrors.ErrUnsupportedBackend, opts.Backend())
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", eerrors.ErrRenderFailed, err)
	}
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return fmt.Errorf("%w: %s: parse frontmatter: %w", eerrors.ErrRenderFailed, path, err)
	}

	attrs := documentAttributes(meta, opts)
	body = substitute(body, attrs)

	md := e.markdown(strings.HasPrefix(backend, "xhtml"))
	doc := md.Parser().Parse(text.NewReader(body))
	if flag, ok := opts.Attributes()[options.AttrDataURI].Bool(); ok && flag {
		if err := inlineImages(doc, imageRoots(path, opts)); err != nil {
			return fmt.Errorf("%w: %s: %w", eerrors.ErrRenderFailed, path, err)
		}
	}
	var content bytes.Buffer
	if err := md.Renderer().Render(&content, body, doc); err != nil {
		return fmt.Errorf("%w: %s: %w", eerrors.ErrRenderFailed, path, err)
	}

	out := content.Bytes()
	if opts.HeaderFooter() || opts.TemplateDir() != "" {
		page := pageData{
			Title:      title(meta, path),
			Backend:    backend,
			Doctype:    opts.Doctype(),
			Attributes: attrs,
			Content:    content.String(),
		}
		out, err = renderPage(opts.TemplateDir(), page)
		if err != nil {
			return err
		}
	}

	return writeOutput(path, opts, out)
}

func writeOutput(path string, opts options.OptionSet, data []byte) error {
	dir := opts.ToDir()
	if dir == "" {
		dir = filepath.Dir(path)
	}
	if opts.Mkdirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", eerrors.ErrRenderFailed, err)
		}
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".html"
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", eerrors.ErrRenderFailed, err)
	}
	return nil
}

// documentAttributes merges scalar front matter values with the option
// attributes; the configured attributes win. Unset flags are dropped.
func documentAttributes(meta map[string]any, opts options.OptionSet) map[string]string {
	attrs := make(map[string]string, len(meta))
	for k, v := range meta {
		switch v.(type) {
		case string, bool, int, int64, float64:
			attrs[k] = fmt.Sprint(v)
		}
	}
	for k, v := range opts.Attributes() {
		if b, ok := v.Bool(); ok && !b {
			delete(attrs, k)
			continue
		}
		if v.IsFlag() {
			attrs[k] = ""
			continue
		}
		attrs[k] = v.String()
	}
	return attrs
}

var attributeRef = regexp.MustCompile(`\{([A-Za-z0-9_][A-Za-z0-9_-]*)\}`)

// substitute replaces {name} with the attribute value. Unknown references stay as written.
func substitute(body []byte, attrs map[string]string) []byte {
	return attributeRef.ReplaceAllFunc(body, func(m []byte) []byte {
		if v, ok := attrs[string(m[1:len(m)-1])]; ok {
			return []byte(v)
		}
		return m
	})
}

func title(meta map[string]any, path string) string {
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
