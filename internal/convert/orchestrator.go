package convert

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docconvert/internal/docs"
	"git.home.luguber.info/inful/docconvert/internal/extensions"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/layout"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
	"git.home.luguber.info/inful/docconvert/internal/metrics"
	"git.home.luguber.info/inful/docconvert/internal/observability"
	"git.home.luguber.info/inful/docconvert/internal/options"
	"git.home.luguber.info/inful/docconvert/internal/resources"
)

// Orchestrator runs conversions. The engine is created per run through the
// injected factory.
type Orchestrator struct {
	factory  EngineFactory
	mirror   *resources.Mirror
	recorder metrics.Recorder
}

// NewOrchestrator creates an orchestrator using factory to obtain the renderer.
func NewOrchestrator(factory EngineFactory) *Orchestrator {
	return &Orchestrator{
		factory:  factory,
		mirror:   resources.NewMirror(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder sets the metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// WithMirror replaces the resource mirror (for testing).
func (o *Orchestrator) WithMirror(m *resources.Mirror) *Orchestrator {
	if m != nil {
		o.mirror = m
	}
	return o
}

// prepared holds what the Preparing state derives from Settings.
type prepared struct {
	source  string
	output  string
	opts    options.OptionSet
	engine  Engine
	layout  *layout.Resolver
	baseDir *layout.BaseDirResolver
}

// Run executes one conversion. The returned Result is non-nil even when the
// run fails; its State is then StateFailed. A renderer error aborts the run
// and is returned unchanged. ctx is handed to the renderer but the run itself
// does not stop between documents when ctx is canceled.
func (o *Orchestrator) Run(ctx context.Context, s Settings) (*Result, error) {
	res := &Result{RunID: observability.NewRunID(), StartTime: time.Now()}
	ctx = observability.WithRunID(ctx, res.RunID)

	err := o.execute(ctx, s, res)

	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	o.recorder.ObserveRunDuration(res.Duration)
	if err != nil {
		o.transition(ctx, res, StateFailed)
		o.recorder.IncRunOutcome(metrics.OutcomeFailed)
		observability.ErrorContext(ctx, "Conversion failed", logfields.Error(err))
		return res, err
	}
	o.transition(ctx, res, StateDone)
	o.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	observability.InfoContext(ctx, "Conversion finished",
		logfields.Count(len(res.Rendered)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (o *Orchestrator) execute(ctx context.Context, s Settings, res *Result) error {
	if err := o.stage(ctx, res, StateValidating, func(context.Context) error {
		return validate(s)
	}); err != nil {
		return err
	}

	var p *prepared
	if err := o.stage(ctx, res, StatePreparing, func(ctx context.Context) error {
		var err error
		p, err = o.prepare(ctx, s)
		return err
	}); err != nil {
		return err
	}

	if err := o.stage(ctx, res, StateRendering, func(ctx context.Context) error {
		return o.render(ctx, s, p, res)
	}); err != nil {
		return err
	}

	return o.stage(ctx, res, StateMirroring, func(ctx context.Context) error {
		stats, err := o.mirror.Mirror(s.Resources, p.source, p.output)
		res.ResourcesCopied = stats.Files
		o.recorder.AddResourcesCopied(stats.Files)
		return err
	})
}

func (o *Orchestrator) stage(ctx context.Context, res *Result, state State, fn func(context.Context) error) error {
	o.transition(ctx, res, state)
	ctx = observability.WithStage(ctx, string(state))
	start := time.Now()
	err := fn(ctx)
	o.recorder.ObserveStageDuration(string(state), time.Since(start))
	if err != nil {
		o.recorder.IncStageResult(string(state), metrics.ResultFailed)
		return err
	}
	o.recorder.IncStageResult(string(state), metrics.ResultSuccess)
	return nil
}

func (o *Orchestrator) transition(ctx context.Context, res *Result, state State) {
	res.State = state
	res.Transitions = append(res.Transitions, state)
	observability.DebugContext(ctx, "State transition", logfields.State(string(state)))
}

// validate checks required settings before any filesystem access.
func validate(s Settings) error {
	if s.SourceDir == "" {
		return errors.MissingParameter("sourceDirectory")
	}
	if s.OutputDir == "" {
		return errors.MissingParameter("outputDirectory")
	}
	return nil
}

func (o *Orchestrator) prepare(ctx context.Context, s Settings) (*prepared, error) {
	source, output, projectRoot, err := resolveRoots(s)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		observability.ErrorContext(ctx, "Cannot create output directory", logfields.Output(output), logfields.Error(err))
	}

	if o.factory == nil {
		return nil, errors.InternalError("no engine factory configured").Build()
	}
	engine, err := o.factory(s.Requires)
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.EngineError("cannot create renderer").WithCause(err).Build()
	}
	if len(s.Extensions) > 0 {
		reg := engine.Registry()
		if reg == nil {
			return nil, errors.EngineError("renderer does not accept extensions").Build()
		}
		if err := extensions.Apply(reg, s.Extensions); err != nil {
			return nil, err
		}
		observability.DebugContext(ctx, "Registered extensions", logfields.Count(len(s.Extensions)))
	}

	return &prepared{
		source:  source,
		output:  output,
		opts:    options.Build(s.Options, s.Attributes),
		engine:  engine,
		layout:  layout.NewResolver(source, output, layout.ModeFor(s.PreserveDirectories)),
		baseDir: layout.NewBaseDirResolver(s.BaseDir, s.RelativeBaseDir, projectRoot),
	}, nil
}

func resolveRoots(s Settings) (source, output, projectRoot string, err error) {
	if source, err = absPath(s.SourceDir); err != nil {
		return "", "", "", err
	}
	if output, err = absPath(s.OutputDir); err != nil {
		return "", "", "", err
	}
	projectRoot = s.ProjectRoot
	if projectRoot == "" {
		if projectRoot, err = os.Getwd(); err != nil {
			return "", "", "", errors.PathError("cannot determine working directory").WithCause(err).Build()
		}
	}
	if projectRoot, err = absPath(projectRoot); err != nil {
		return "", "", "", err
	}
	return source, output, projectRoot, nil
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.PathError("cannot make path absolute").
			WithCause(err).
			WithContext("path", p).
			Build()
	}
	return abs, nil
}

// documents yields the single configured document or every discovered one.
func documents(s Settings, source string, walker *docs.Walker) iter.Seq2[docs.CandidateFile, error] {
	if s.Document == "" {
		return walker.Scan(source)
	}
	path := filepath.Join(source, s.Document)
	return func(yield func(docs.CandidateFile, error) bool) {
		yield(docs.CandidateFile{Path: path, Name: filepath.Base(path), RelativePath: s.Document}, nil)
	}
}

func (o *Orchestrator) render(ctx context.Context, s Settings, p *prepared, res *Result) error {
	observability.InfoContext(ctx, "Rendering documents",
		logfields.Source(p.source),
		logfields.Output(p.output),
		logfields.Backend(p.opts.Backend()))

	walker := docs.NewWalker(docs.FilterFor(s.ExtensionList))
	defer func() {
		res.SkippedDirectories = walker.Skipped()
		o.recorder.AddSkippedDirectories(walker.Skipped())
	}()

	for doc, err := range documents(s, p.source, walker) {
		if err != nil {
			return err
		}
		dest, err := p.layout.DestinationDir(doc.Path)
		if err != nil {
			return err
		}
		base := p.baseDir.BaseDir(doc.Path)
		docCtx := observability.WithDocument(ctx, doc.RelativePath)
		observability.DebugContext(docCtx, "Rendering document", logfields.BaseDir(base), logfields.DestDir(dest))

		start := time.Now()
		err = p.engine.RenderFile(docCtx, doc.Path, p.opts.ForDocument(base, dest))
		o.recorder.ObserveRenderDuration(time.Since(start), err == nil)
		if err != nil {
			return err
		}
		res.Rendered = append(res.Rendered, doc.Path)
	}
	return nil
}

// Plan discovers documents and computes their layout without rendering or
// creating directories.
func (o *Orchestrator) Plan(ctx context.Context, s Settings) (*Plan, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	source, output, projectRoot, err := resolveRoots(s)
	if err != nil {
		return nil, err
	}
	resolver := layout.NewResolver(source, output, layout.ModeFor(s.PreserveDirectories))
	baseDir := layout.NewBaseDirResolver(s.BaseDir, s.RelativeBaseDir, projectRoot)
	walker := docs.NewWalker(docs.FilterFor(s.ExtensionList))

	plan := &Plan{SourceDir: source, OutputDir: output}
	for doc, err := range documents(s, source, walker) {
		if err != nil {
			return nil, err
		}
		dest, err := resolver.Compute(doc.Path)
		if err != nil {
			return nil, err
		}
		plan.Documents = append(plan.Documents, PlannedDocument{
			Source:       doc.Path,
			RelativePath: doc.RelativePath,
			BaseDir:      baseDir.BaseDir(doc.Path),
			DestDir:      dest,
		})
	}
	plan.SkippedDirectories = walker.Skipped()
	observability.DebugContext(ctx, "Planned conversion", logfields.Count(len(plan.Documents)))
	return plan, nil
}
