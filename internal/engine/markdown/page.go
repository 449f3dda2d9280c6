package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	eerrors "git.home.luguber.info/inful/docconvert/internal/engine/errors"
)

// TemplateName is the file loaded from the template directory.
const TemplateName = "document.html"

type pageData struct {
	Title      string
	Backend    string
	Doctype    string
	Attributes map[string]string
	Content    string
}

// templateData is what document.html templates see.
type templateData struct {
	Title      string
	Backend    string
	Doctype    string
	Attributes map[string]string
	Content    template.HTML
}

var defaultPage = template.Must(template.New(TemplateName).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- with index .Attributes "stylesheet"}}
<link rel="stylesheet" href="{{.}}">
{{- end}}
</head>
<body class="{{.Doctype}}">
{{.Content}}
</body>
</html>
`))

func renderPage(templateDir string, page pageData) ([]byte, error) {
	tpl := defaultPage
	if templateDir != "" {
		var err error
		tpl, err = template.ParseFiles(filepath.Join(templateDir, TemplateName))
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %w", eerrors.ErrRenderFailed, eerrors.ErrTemplateDir, err)
		}
	}
	var buf bytes.Buffer
	err := tpl.Execute(&buf, templateData{
		Title:      page.Title,
		Backend:    page.Backend,
		Doctype:    page.Doctype,
		Attributes: page.Attributes,
		Content:    template.HTML(page.Content), //nolint:gosec // rendered by goldmark
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute template: %w", eerrors.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}
