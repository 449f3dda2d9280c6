package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docconvert/internal/config"
	"git.home.luguber.info/inful/docconvert/internal/convert"
	"git.home.luguber.info/inful/docconvert/internal/engine"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
	"git.home.luguber.info/inful/docconvert/internal/metrics"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	RunFlags `embed:""`
}

func (c *ConvertCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := c.Apply(cfg); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r, err := NewRunner(cfg, root.metricsFile(cfg), os.Stdout)
	if err != nil {
		return err
	}
	_, err = r.Run(ctx)
	return err
}

// Runner executes conversions for one loaded configuration. Metrics
// accumulate across runs of the same Runner.
type Runner struct {
	settings    convert.Settings
	factory     convert.EngineFactory
	recorder    *metrics.PrometheusRecorder
	metricsFile string
	out         io.Writer
}

// NewRunner prepares the engine factory and, when metricsFile is set, a
// Prometheus recorder.
func NewRunner(cfg *config.Config, metricsFile string, out io.Writer) (*Runner, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	factory, err := engine.Factory(cfg.Render.Engine, engine.Settings{Command: cfg.Render.Command})
	if err != nil {
		return nil, err
	}
	r := &Runner{settings: settings, factory: factory, metricsFile: metricsFile, out: out}
	if metricsFile != "" {
		r.recorder = metrics.NewPrometheusRecorder(nil)
	}
	return r, nil
}

// Settings returns the run settings.
func (r *Runner) Settings() convert.Settings {
	return r.settings
}

// Run performs one conversion and prints a summary.
func (r *Runner) Run(ctx context.Context) (*convert.Result, error) {
	orch := convert.NewOrchestrator(r.factory)
	if r.recorder != nil {
		orch = orch.WithRecorder(r.recorder)
	}
	res, err := orch.Run(ctx, r.settings)
	r.writeMetrics()
	if err != nil {
		return res, err
	}
	_, _ = fmt.Fprintf(r.out, "Converted %d document(s) into %s\n", len(res.Rendered), r.settings.OutputDir)
	if res.ResourcesCopied > 0 {
		_, _ = fmt.Fprintf(r.out, "Copied %d resource file(s)\n", res.ResourcesCopied)
	}
	return res, nil
}

func (r *Runner) writeMetrics() {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.WriteTextfile(r.metricsFile); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(r.metricsFile), logfields.Error(err))
	}
}
