package layout

import "path/filepath"

// BaseDirPolicy names the rule used to pick a document's base directory.
type BaseDirPolicy string

const (
	Explicit              BaseDirPolicy = "explicit"
	RelativeToFile        BaseDirPolicy = "relative_to_file"
	RelativeToProjectRoot BaseDirPolicy = "relative_to_project_root"
)

// BaseDirResolver picks the directory the renderer resolves include directives
// and relative links against. Precedence: explicit override, then the file's
// parent when relative is set, then the project root.
type BaseDirResolver struct {
	explicit    string
	relative    bool
	projectRoot string
}

// NewBaseDirResolver creates a resolver. An empty explicit path means no override.
func NewBaseDirResolver(explicit string, relative bool, projectRoot string) *BaseDirResolver {
	return &BaseDirResolver{explicit: explicit, relative: relative, projectRoot: projectRoot}
}

// Policy reports which rule BaseDir applies.
func (b *BaseDirResolver) Policy() BaseDirPolicy {
	switch {
	case b.explicit != "":
		return Explicit
	case b.relative:
		return RelativeToFile
	default:
		return RelativeToProjectRoot
	}
}

// BaseDir returns the base directory for sourceFile. It performs no I/O.
func (b *BaseDirResolver) BaseDir(sourceFile string) string {
	switch b.Policy() {
	case Explicit:
		return b.explicit
	case RelativeToFile:
		return filepath.Dir(sourceFile)
	default:
		return b.projectRoot
	}
}
