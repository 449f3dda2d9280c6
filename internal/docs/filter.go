package docs

import (
	"strings"

	"golang.org/x/text/cases"
)

// ReservedPrefix marks files and directories excluded from discovery.
// A directory carrying it is pruned together with its whole subtree.
const ReservedPrefix = "_"

// DefaultExtensions are the markup suffixes selected when no allow-list is configured.
var DefaultExtensions = []string{".adoc", ".asciidoc", ".asc", ".ad"}

// Filter decides whether a file name is a document to render.
type Filter interface {
	Accept(name string) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(name string) bool

func (f FilterFunc) Accept(name string) bool { return f(name) }

// ExtensionFilter selects files whose name ends with one of a list of suffixes.
// Matching is a plain suffix match, so both "txt" and ".txt" select "foo.txt".
type ExtensionFilter struct {
	suffixes []string
}

// NewExtensionFilter builds a suffix filter. Blank entries are dropped.
func NewExtensionFilter(suffixes []string) *ExtensionFilter {
	f := &ExtensionFilter{suffixes: make([]string, 0, len(suffixes))}
	for _, s := range suffixes {
		if s = strings.TrimSpace(s); s != "" {
			f.suffixes = append(f.suffixes, s)
		}
	}
	return f
}

// Accept reports whether name ends with one of the configured suffixes.
func (f *ExtensionFilter) Accept(name string) bool {
	for _, s := range f.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Suffixes returns a copy of the configured suffixes.
func (f *ExtensionFilter) Suffixes() []string {
	return append([]string(nil), f.suffixes...)
}

// DefaultFilter is the markup document predicate used when no extension list is set.
// Suffixes match caselessly under Unicode case folding.
func DefaultFilter() Filter {
	return FilterFunc(func(name string) bool {
		if IsReserved(name) {
			return false
		}
		folded := cases.Fold().String(name)
		for _, ext := range DefaultExtensions {
			if strings.HasSuffix(folded, ext) {
				return true
			}
		}
		return false
	})
}

// ParseExtensions splits a comma separated allow-list, trimming blanks.
func ParseExtensions(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FilterFor returns a suffix filter for a non-empty allow-list and the default
// markup predicate otherwise.
func FilterFor(csv string) Filter {
	if list := ParseExtensions(csv); len(list) > 0 {
		return NewExtensionFilter(list)
	}
	return DefaultFilter()
}

// IsReserved reports whether a path segment carries the reserved prefix.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}
