// Package resources mirrors auxiliary resource trees (images, stylesheets,
// data files) from the source tree into the output tree.
package resources

import (
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/layout"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
	"git.home.luguber.info/inful/docconvert/internal/util/sets"
)

// Spec declares one resource tree and the file names copied from it.
type Spec struct {
	Directory string   `yaml:"directory"`
	Includes  []string `yaml:"includes"`
}

// Stats summarizes a mirror run.
type Stats struct {
	Files int
	Specs int
}

// FilesystemFactory opens a filesystem rooted at dir.
type FilesystemFactory func(dir string) billy.Filesystem

// Mirror copies resource trees with their offset from the source root preserved.
type Mirror struct {
	open FilesystemFactory
}

// NewMirror creates a mirror backed by the host filesystem.
func NewMirror() *Mirror {
	return &Mirror{open: func(dir string) billy.Filesystem { return osfs.New(dir) }}
}

// WithFilesystem overrides how source and output roots are opened.
func (m *Mirror) WithFilesystem(open FilesystemFactory) *Mirror {
	m.open = open
	return m
}

type entry struct {
	rel  string
	info os.FileInfo
}

// Mirror copies, for each spec, every file below the spec directory whose base
// name is in the include list to the same relative location under outputRoot.
// Include entries containing glob metacharacters are expanded to the names of
// the files they match. The first failure aborts the whole step.
func (m *Mirror) Mirror(specs []Spec, sourceRoot, outputRoot string) (Stats, error) {
	var stats Stats
	for _, spec := range specs {
		n, err := m.mirrorSpec(spec, sourceRoot, outputRoot)
		stats.Files += n
		if err != nil {
			return stats, err
		}
		stats.Specs++
	}
	return stats, nil
}

func (m *Mirror) mirrorSpec(spec Spec, sourceRoot, outputRoot string) (int, error) {
	dir := spec.Directory
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(sourceRoot, dir)
	}
	offset, err := layout.Offset(sourceRoot, dir)
	if err != nil {
		return 0, err
	}
	canonDir, err := layout.Canonical(dir)
	if err != nil {
		return 0, err
	}

	src := m.open(canonDir)
	files, err := listFiles(src)
	if err != nil {
		return 0, mirrorError(err, spec, "")
	}
	names := expandIncludes(spec.Includes, files)

	dst := m.open(outputRoot)
	target := filepath.ToSlash(offset)
	if target == "" {
		target = "."
	}
	if err := dst.MkdirAll(target, 0o755); err != nil {
		return 0, mirrorError(err, spec, target)
	}

	copied := 0
	for _, f := range files {
		if !names.Has(path.Base(f.rel)) {
			continue
		}
		to := path.Join(target, f.rel)
		if err := copyFile(src, dst, f, to); err != nil {
			return copied, mirrorError(err, spec, f.rel)
		}
		copied++
		slog.Debug("Mirrored resource", logfields.Source(filepath.Join(canonDir, f.rel)), logfields.Output(filepath.Join(outputRoot, to)))
	}
	slog.Info("Mirrored resource directory",
		logfields.Path(spec.Directory),
		logfields.DestDir(filepath.Join(outputRoot, offset)),
		logfields.Count(copied))
	return copied, nil
}

func listFiles(fs billy.Filesystem) ([]entry, error) {
	var files []entry
	err := util.Walk(fs, ".", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, statErr := fs.Stat(p)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
			info = target
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		files = append(files, entry{rel: filepath.ToSlash(p), info: info})
		return nil
	})
	return files, err
}

// expandIncludes returns the file names selected by includes. Plain entries
// name a file; entries with glob characters match relative paths or names.
func expandIncludes(includes []string, files []entry) sets.Set[string] {
	names := sets.New[string]()
	for _, inc := range includes {
		inc = strings.TrimSpace(inc)
		if inc == "" {
			continue
		}
		if !strings.ContainsAny(inc, "*?[") {
			names.Add(path.Base(filepath.ToSlash(inc)))
			continue
		}
		pattern := filepath.ToSlash(inc)
		for _, f := range files {
			base := path.Base(f.rel)
			if ok, _ := path.Match(pattern, f.rel); ok {
				names.Add(base)
			} else if ok, _ := path.Match(pattern, base); ok {
				names.Add(base)
			}
		}
	}
	return names
}

func copyFile(src, dst billy.Filesystem, f entry, to string) error {
	if err := dst.MkdirAll(path.Dir(to), 0o755); err != nil {
		return err
	}
	in, err := src.Open(f.rel)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := dst.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if ch, ok := dst.(billy.Change); ok {
		return ch.Chmod(to, f.info.Mode().Perm())
	}
	return nil
}

func mirrorError(err error, spec Spec, file string) error {
	b := errors.FileSystemError("resource mirror failed").
		WithCause(err).
		WithContext("directory", spec.Directory)
	if file != "" {
		b = b.WithContext("file", file)
	}
	return b.Build()
}
