package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	RunFlags `embed:""`
	Debounce time.Duration `name:"debounce" help:"Quiet window before a change triggers a conversion" default:"300ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := w.Apply(cfg); err != nil {
		return err
	}
	r, err := NewRunner(cfg, root.metricsFile(cfg), os.Stdout)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWatch(ctx, r, w.Debounce)
}

// RunWatch converts once and again after every settled change until ctx ends.
// Output written into a directory nested in the source tree is ignored.
func RunWatch(ctx context.Context, r *Runner, debounce time.Duration) error {
	s := r.Settings()
	if s.SourceDir == "" {
		return errors.MissingParameter("sourceDirectory")
	}
	w := watch.New(s.SourceDir, func(ctx context.Context) error {
		_, err := r.Run(ctx)
		return err
	}, watch.WithDebounce(debounce), watch.WithIgnore(s.OutputDir))
	return w.Run(ctx)
}
