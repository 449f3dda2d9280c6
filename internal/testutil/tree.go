// Package testutil holds filesystem fixtures and fakes shared by package tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files below root. Keys are slash separated relative paths.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// Tree asserts on the state of an output directory.
type Tree struct {
	t    testing.TB
	root string
}

// NewTree creates assertions rooted at root.
func NewTree(t testing.TB, root string) *Tree {
	return &Tree{t: t, root: root}
}

// Files returns every regular file below the root as sorted slash paths.
func (tr *Tree) Files() []string {
	tr.t.Helper()
	var files []string
	err := filepath.WalkDir(tr.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, relErr := filepath.Rel(tr.root, p)
			if relErr != nil {
				return relErr
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(tr.t, err)
	slices.Sort(files)
	return files
}

// HasExactly asserts the tree holds exactly the given files.
func (tr *Tree) HasExactly(files ...string) *Tree {
	tr.t.Helper()
	want := slices.Clone(files)
	slices.Sort(want)
	assert.Equal(tr.t, want, tr.Files())
	return tr
}

// Contains asserts that the file exists and contains substr.
func (tr *Tree) Contains(rel, substr string) *Tree {
	tr.t.Helper()
	data, err := os.ReadFile(filepath.Join(tr.root, filepath.FromSlash(rel)))
	if assert.NoError(tr.t, err, rel) {
		assert.Contains(tr.t, string(data), substr, rel)
	}
	return tr
}

// Lacks asserts that nothing exists at rel.
func (tr *Tree) Lacks(rel string) *Tree {
	tr.t.Helper()
	assert.NoFileExists(tr.t, filepath.Join(tr.root, filepath.FromSlash(rel)))
	assert.NoDirExists(tr.t, filepath.Join(tr.root, filepath.FromSlash(rel)))
	return tr
}
