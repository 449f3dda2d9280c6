package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	derrors "git.home.luguber.info/inful/docconvert/internal/docs/errors"
	ferrors "git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
)

// CandidateFile is a document discovered below the source root.
type CandidateFile struct {
	Path         string   // Absolute path to the file
	Name         string   // Base name including extension
	RelativePath string   // Path relative to the source root
	Parents      []string // Directory names from the source root (exclusive) down to the file's parent
}

// Dir returns the absolute directory containing the file.
func (c CandidateFile) Dir() string {
	return filepath.Dir(c.Path)
}

// Walker discovers documents below a source root. Reserved-prefix directories
// are pruned without being opened and symlinked directories are not followed.
type Walker struct {
	filter  Filter
	skipped int
}

// NewWalker creates a walker selecting files with filter. A nil filter selects
// the default markup documents.
func NewWalker(filter Filter) *Walker {
	if filter == nil {
		filter = DefaultFilter()
	}
	return &Walker{filter: filter}
}

// Skipped returns the number of unreadable subdirectories skipped by the last scan.
func (w *Walker) Skipped() int {
	return w.skipped
}

// Scan returns a lazy depth-first sequence of documents under root, in lexical
// order within each directory. The sequence can be ranged over once; a second
// pass yields ErrScanConsumed. A missing or unreadable root yields a single
// classified error.
func (w *Walker) Scan(root string) iter.Seq2[CandidateFile, error] {
	var used atomic.Bool
	return func(yield func(CandidateFile, error) bool) {
		if used.Swap(true) {
			yield(CandidateFile{}, derrors.ErrScanConsumed)
			return
		}
		w.skipped = 0

		abs, err := checkRoot(root)
		if err != nil {
			yield(CandidateFile{}, err)
			return
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			yield(CandidateFile{}, rootError(abs, err))
			return
		}
		w.walkEntries(abs, abs, entries, nil, yield)
	}
}

// Collect drains Scan into a slice, stopping at the first error.
func (w *Walker) Collect(root string) ([]CandidateFile, error) {
	var files []CandidateFile
	for file, err := range w.Scan(root) {
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (w *Walker) walkEntries(root, dir string, entries []fs.DirEntry, parents []string, yield func(CandidateFile, error) bool) bool {
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if IsReserved(name) {
			slog.Debug("Pruned reserved entry", logfields.Path(path))
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				slog.Debug("Ignoring dangling symlink", logfields.Path(path), logfields.Error(err))
				continue
			}
			if info.IsDir() {
				slog.Debug("Not following symlinked directory", logfields.Path(path))
				continue
			}
		}

		if isDir {
			children, err := os.ReadDir(path)
			if err != nil {
				w.skipped++
				slog.Warn("Skipping unreadable directory",
					logfields.Path(path),
					logfields.Error(fmt.Errorf("%w: %w", derrors.ErrDirectoryUnreadable, err)))
				continue
			}
			childParents := append(append([]string(nil), parents...), name)
			if !w.walkEntries(root, path, children, childParents, yield) {
				return false
			}
			continue
		}

		if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		if !w.filter.Accept(name) {
			continue
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = name
		}
		candidate := CandidateFile{
			Path:         path,
			Name:         name,
			RelativePath: rel,
			Parents:      append([]string(nil), parents...),
		}
		if !yield(candidate, nil) {
			return false
		}
	}
	return true
}

func checkRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", ferrors.PathError("cannot resolve source directory").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", rootError(abs, err)
	}
	if !info.IsDir() {
		return "", ferrors.NotFoundError("source directory is not a directory").
			WithCause(derrors.ErrSourceRootNotDir).
			WithContext("path", abs).
			Build()
	}
	return abs, nil
}

func rootError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ferrors.NotFoundError("source directory does not exist").
			WithCause(fmt.Errorf("%w: %w", derrors.ErrSourceRootNotFound, err)).
			WithContext("path", path).
			Build()
	case errors.Is(err, fs.ErrPermission):
		return ferrors.PermissionError("source directory is not readable").
			WithCause(fmt.Errorf("%w: %w", derrors.ErrSourceRootUnreadable, err)).
			WithContext("path", path).
			Build()
	default:
		return ferrors.FileSystemError("cannot list source directory").
			WithCause(fmt.Errorf("%w: %w", derrors.ErrSourceRootUnreadable, err)).
			WithContext("path", path).
			Build()
	}
}
