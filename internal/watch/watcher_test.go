package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
)

const debounce = 50 * time.Millisecond

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	select {
	case <-w.Ready():
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}
}

func counter() (*atomic.Int32, RunFunc) {
	var n atomic.Int32
	return &n, func(context.Context) error {
		n.Add(1)
		return nil
	}
}

func TestInitialRunAndRerunOnChange(t *testing.T) {
	src := t.TempDir()
	n, run := counter()
	startWatcher(t, New(src, run, WithDebounce(debounce)))

	require.Eventually(t, func() bool { return n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(src, "doc.adoc"), []byte("= Title\n"), 0o644))
	require.Eventually(t, func() bool { return n.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestBurstIsCoalesced(t *testing.T) {
	src := t.TempDir()
	n, run := counter()
	startWatcher(t, New(src, run, WithDebounce(200*time.Millisecond)))
	require.Eventually(t, func() bool { return n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(src, "doc.adoc"), []byte{byte('a' + i)}, 0o644))
	}
	require.Eventually(t, func() bool { return n.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return n.Load() > 2 }, 400*time.Millisecond, 20*time.Millisecond)
}

func TestNewSubdirectoryIsWatched(t *testing.T) {
	src := t.TempDir()
	n, run := counter()
	startWatcher(t, New(src, run, WithDebounce(debounce)))
	require.Eventually(t, func() bool { return n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	sub := filepath.Join(src, "chapter")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return n.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "one.adoc"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return n.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestNestedOutputIsIgnored(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(src, "build")
	require.NoError(t, os.Mkdir(out, 0o755))

	n, run := counter()
	startWatcher(t, New(src, run, WithDebounce(debounce), WithIgnore(out)))
	require.Eventually(t, func() bool { return n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(out, "doc.html"), []byte("<p/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".doc.adoc.swp"), []byte("x"), 0o644))
	assert.Never(t, func() bool { return n.Load() > 1 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestRunFailureKeepsWatching(t *testing.T) {
	src := t.TempDir()
	var n atomic.Int32
	run := func(context.Context) error {
		n.Add(1)
		return errors.EngineError("render failed").Build()
	}
	startWatcher(t, New(src, run, WithDebounce(debounce)))
	require.Eventually(t, func() bool { return n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(src, "doc.adoc"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return n.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRunRejectsMissingRoot(t *testing.T) {
	_, run := counter()
	err := New(filepath.Join(t.TempDir(), "absent"), run).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	err = New(t.TempDir(), nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestShouldIgnoreEvent(t *testing.T) {
	tests := map[string]bool{
		"/src/doc.adoc":       false,
		"/src/_partials/a.ad": false,
		"/src/.hidden":        true,
		"/src/doc.adoc~":      true,
		"/src/.doc.adoc.swp":  true,
		"/src/doc.swx":        true,
		"/src/#doc.adoc#":     true,
		"/src/Thumbs.db":      true,
	}
	for path, want := range tests {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestClosedEventStreamStopsWorker(t *testing.T) {
	src := t.TempDir()
	_, run := counter()
	w := New(src, run, WithDebounce(debounce))
	var fsw *fsnotify.Watcher
	w.newFSWatcher = func() (*fsnotify.Watcher, error) {
		var err error
		fsw, err = fsnotify.NewWatcher()
		return fsw, err
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()
	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}

	require.NoError(t, fsw.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not return after its event stream closed")
	}
}
