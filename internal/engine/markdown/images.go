package markdown

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docconvert/internal/options"
)

// imageRoots lists the directories local image targets are looked up in:
// the imagesdir below the document's base (or own) directory, then the base itself.
func imageRoots(path string, opts options.OptionSet) []string {
	base := opts.BaseDir()
	if base == "" {
		base = filepath.Dir(path)
	}
	roots := []string{filepath.Dir(path)}
	if v, ok := opts.Attribute(options.AttrImagesDir); ok && v.String() != "" {
		dir := v.String()
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		roots = append([]string{dir}, roots...)
	}
	if base != filepath.Dir(path) {
		roots = append(roots, base)
	}
	return roots
}

// inlineImages rewrites local image destinations to data URIs.
func inlineImages(doc ast.Node, roots []string) error {
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		target := string(img.Destination)
		if target == "" || strings.Contains(target, "://") || strings.HasPrefix(target, "data:") {
			return ast.WalkContinue, nil
		}
		data, err := readImage(target, roots)
		if err != nil {
			return ast.WalkStop, err
		}
		mimeType := mime.TypeByExtension(filepath.Ext(target))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		img.Destination = []byte("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
		return ast.WalkContinue, nil
	})
}

func readImage(target string, roots []string) ([]byte, error) {
	if filepath.IsAbs(target) {
		return os.ReadFile(target)
	}
	for _, root := range roots {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(target)))
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("image %q not found for data-uri embedding", target)
}
