package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
)

func setupRoots(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	out := filepath.Join(base, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "doc.adoc"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.adoc"), nil, 0o644))
	return src, out
}

func TestPreserveHierarchyCreatesNestedDirectory(t *testing.T) {
	src, out := setupRoots(t)
	r := NewResolver(src, out, PreserveHierarchy)

	dir, err := r.DestinationDir(filepath.Join(src, "a", "b", "doc.adoc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "a", "b"), dir)
	assert.DirExists(t, dir)

	again, err := r.DestinationDir(filepath.Join(src, "a", "b", "doc.adoc"))
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestPreserveHierarchyRootLevelFile(t *testing.T) {
	src, out := setupRoots(t)
	dir, err := NewResolver(src, out, PreserveHierarchy).DestinationDir(filepath.Join(src, "top.adoc"))
	require.NoError(t, err)
	assert.Equal(t, out, dir)
	assert.DirExists(t, out)
}

func TestFlattenAlwaysOutputRoot(t *testing.T) {
	src, out := setupRoots(t)
	r := NewResolver(src, out, Flatten)
	for _, f := range []string{
		filepath.Join(src, "top.adoc"),
		filepath.Join(src, "a", "b", "doc.adoc"),
		filepath.Join(src, "x", "y", "z", "missing.adoc"),
	} {
		dir, err := r.DestinationDir(f)
		require.NoError(t, err)
		assert.Equal(t, out, dir)
	}
	assert.NoDirExists(t, filepath.Join(out, "a"))
}

func TestPreserveHierarchyCanonicalizesSymlinkedRoot(t *testing.T) {
	src, out := setupRoots(t)
	link := filepath.Join(filepath.Dir(src), "src-link")
	if err := os.Symlink(src, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	dir, err := NewResolver(link, out, PreserveHierarchy).DestinationDir(filepath.Join(src, "a", "b", "doc.adoc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "a", "b"), dir)

	dir, err = NewResolver(src, out, PreserveHierarchy).DestinationDir(filepath.Join(src, "a", "..", "a", "b", "doc.adoc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "a", "b"), dir)
}

func TestPreserveHierarchyDanglingPathFails(t *testing.T) {
	src, out := setupRoots(t)
	_, err := NewResolver(src, out, PreserveHierarchy).DestinationDir(filepath.Join(src, "ghost", "doc.adoc"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPath))
}

func TestPreserveHierarchyOutsideRootFails(t *testing.T) {
	src, out := setupRoots(t)
	outside := t.TempDir()
	_, err := NewResolver(src, out, PreserveHierarchy).Compute(filepath.Join(outside, "doc.adoc"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPath))
}

func TestComputeHasNoSideEffects(t *testing.T) {
	src, out := setupRoots(t)
	dir, err := NewResolver(src, out, PreserveHierarchy).Compute(filepath.Join(src, "a", "b", "doc.adoc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "a", "b"), dir)
	assert.NoDirExists(t, out)
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, PreserveHierarchy, ModeFor(true))
	assert.Equal(t, Flatten, ModeFor(false))
}

func TestBaseDirPrecedence(t *testing.T) {
	file := filepath.Join("/work", "docs", "guide", "intro.adoc")
	tests := []struct {
		name     string
		explicit string
		relative bool
		want     string
		policy   BaseDirPolicy
	}{
		{"explicit wins over relative", "/override", true, "/override", Explicit},
		{"explicit wins without relative", "/override", false, "/override", Explicit},
		{"relative uses parent", "", true, filepath.Join("/work", "docs", "guide"), RelativeToFile},
		{"project root fallback", "", false, "/work", RelativeToProjectRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewBaseDirResolver(tt.explicit, tt.relative, "/work")
			assert.Equal(t, tt.want, r.BaseDir(file))
			assert.Equal(t, tt.policy, r.Policy())
		})
	}
}
