package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eerrors "git.home.luguber.info/inful/docconvert/internal/engine/errors"
	"git.home.luguber.info/inful/docconvert/internal/engine/markdown"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
)

func TestParseName(t *testing.T) {
	for raw, want := range map[string]Name{"": Asciidoctor, "Goldmark": Goldmark, "markdown": Goldmark, " asciidoctor ": Asciidoctor} {
		got, err := ParseName(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFactoryGoldmark(t *testing.T) {
	f, err := Factory("goldmark", Settings{})
	require.NoError(t, err)
	e, err := f([]string{"gfm"})
	require.NoError(t, err)
	assert.IsType(t, &markdown.Engine{}, e)
}

func TestFactoryAsciidoctorMissingCommand(t *testing.T) {
	f, err := Factory("asciidoctor", Settings{Command: filepath.Join(t.TempDir(), "absent")})
	require.NoError(t, err)
	_, err = f(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, eerrors.ErrCommandNotFound)
}

func TestFactoryUnknown(t *testing.T) {
	_, err := Factory("pandoc", Settings{})
	require.Error(t, err)
	assert.ErrorIs(t, err, eerrors.ErrUnknownEngine)
	assert.True(t, errors.HasCategory(err, errors.CategoryEngine))
}

func TestBackendsPerEngine(t *testing.T) {
	assert.Equal(t, "docbook", DefaultBackend(Asciidoctor))
	assert.Equal(t, "html5", DefaultBackend(Goldmark))
	assert.True(t, SupportsBackend(Goldmark, "XHTML5"))
	assert.False(t, SupportsBackend(Goldmark, "docbook"))
	assert.True(t, SupportsBackend(Asciidoctor, "pdf"))
}
