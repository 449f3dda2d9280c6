// Package layout computes where each discovered document is rendered and the
// directory the renderer resolves includes against.
package layout

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
)

// Mode selects how output directories relate to the source tree.
type Mode string

const (
	// Flatten places every rendered document directly under the output root.
	Flatten Mode = "flatten"
	// PreserveHierarchy mirrors the source directory offset under the output root.
	PreserveHierarchy Mode = "preserve"
)

// ModeFor maps the preserve-directories flag onto a Mode.
func ModeFor(preserve bool) Mode {
	if preserve {
		return PreserveHierarchy
	}
	return Flatten
}

// Resolver computes destination directories for source files.
type Resolver struct {
	sourceRoot string
	outputRoot string
	mode       Mode
}

// NewResolver creates a resolver for one conversion run.
func NewResolver(sourceRoot, outputRoot string, mode Mode) *Resolver {
	return &Resolver{sourceRoot: sourceRoot, outputRoot: outputRoot, mode: mode}
}

// Mode returns the layout mode.
func (r *Resolver) Mode() Mode { return r.mode }

// OutputRoot returns the output root the resolver places documents under.
func (r *Resolver) OutputRoot() string { return r.outputRoot }

// DestinationDir returns the directory the document at sourceFile renders into
// and creates it, including missing ancestors. Calling it again is a no-op.
func (r *Resolver) DestinationDir(sourceFile string) (string, error) {
	dir, err := r.Compute(sourceFile)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.FileSystemError("cannot create destination directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	return dir, nil
}

// Compute returns the destination directory without touching the filesystem
// beyond canonicalizing paths.
func (r *Resolver) Compute(sourceFile string) (string, error) {
	if r.mode != PreserveHierarchy {
		return r.outputRoot, nil
	}
	offset, err := Offset(r.sourceRoot, filepath.Dir(sourceFile))
	if err != nil {
		return "", err
	}
	return filepath.Join(r.outputRoot, offset), nil
}

// Offset returns the path of dir relative to root after both are made absolute
// and their symlinks resolved. dir equal to root yields "". A dir outside root
// is a path resolution error.
func Offset(root, dir string) (string, error) {
	canonRoot, err := Canonical(root)
	if err != nil {
		return "", err
	}
	canonDir, err := Canonical(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(canonRoot, canonDir)
	if err != nil {
		return "", errors.PathError("cannot compute directory offset").
			WithCause(err).
			WithContext("root", canonRoot).
			WithContext("path", canonDir).
			Build()
	}
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.PathError("directory is outside the source root").
			WithContext("root", canonRoot).
			WithContext("path", canonDir).
			Build()
	}
	return rel, nil
}

// Canonical makes path absolute and resolves its symlinks and ".." segments.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.PathError("cannot make path absolute").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.PathError("cannot canonicalize path").
			WithCause(err).
			WithContext("path", abs).
			Build()
	}
	return resolved, nil
}
