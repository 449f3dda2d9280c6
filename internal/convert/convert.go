// Package convert coordinates one batch conversion run: it validates the run
// settings, discovers documents, resolves their layout, hands each one to the
// renderer and finally mirrors resource trees into the output.
//
// A run is strictly sequential. The renderer is treated as a single stateful
// resource and is never invoked concurrently from within one run.
package convert

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docconvert/internal/extensions"
	"git.home.luguber.info/inful/docconvert/internal/options"
	"git.home.luguber.info/inful/docconvert/internal/resources"
)

// Renderer converts one document with the given options.
type Renderer interface {
	RenderFile(ctx context.Context, path string, opts options.OptionSet) error
}

// Engine is a renderer together with its extension registry.
type Engine interface {
	Renderer
	Registry() extensions.Registry
}

// EngineFactory creates the engine for a run, preloading the named libraries.
type EngineFactory func(requires []string) (Engine, error)

// Settings is the immutable configuration of one run.
type Settings struct {
	SourceDir           string
	OutputDir           string
	ProjectRoot         string // defaults to the working directory
	Document            string // optional single document, relative to SourceDir
	ExtensionList       string // comma separated suffixes; empty selects markup documents
	PreserveDirectories bool
	BaseDir             string
	RelativeBaseDir     bool
	Options             options.Static
	Attributes          []options.AttributePair
	Resources           []resources.Spec
	Extensions          []extensions.Registration
	Requires            []string
}

// State is a step of the run state machine.
type State string

const (
	StateValidating State = "validating"
	StatePreparing  State = "preparing"
	StateRendering  State = "rendering"
	StateMirroring  State = "mirroring"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transition follows.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Result describes a finished run.
type Result struct {
	RunID              string
	State              State
	Transitions        []State
	Rendered           []string
	ResourcesCopied    int
	SkippedDirectories int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// PlannedDocument is a document together with its computed layout.
type PlannedDocument struct {
	Source       string
	RelativePath string
	BaseDir      string
	DestDir      string
}

// Plan is the dry-run view of a conversion.
type Plan struct {
	SourceDir          string
	OutputDir          string
	Documents          []PlannedDocument
	SkippedDirectories int
}
