package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/docconvert/internal/config"
	"git.home.luguber.info/inful/docconvert/internal/convert"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	RunFlags `embed:""`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := d.Apply(cfg); err != nil {
		return err
	}
	return RunDiscover(context.Background(), cfg, os.Stdout)
}

// RunDiscover prints every candidate document with its destination and
// base directory. Nothing is rendered or created.
func RunDiscover(ctx context.Context, cfg *config.Config, out io.Writer) error {
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	// Planning never constructs an engine.
	plan, err := convert.NewOrchestrator(nil).Plan(ctx, settings)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Source: %s\nOutput: %s\n", plan.SourceDir, plan.OutputDir)
	for _, doc := range plan.Documents {
		_, _ = fmt.Fprintf(out, "  %s -> %s (base %s)\n", doc.RelativePath, doc.DestDir, doc.BaseDir)
	}
	_, _ = fmt.Fprintf(out, "%d document(s) discovered", len(plan.Documents))
	if plan.SkippedDirectories > 0 {
		_, _ = fmt.Fprintf(out, ", %d unreadable director(ies) skipped", plan.SkippedDirectories)
	}
	_, _ = fmt.Fprintln(out)
	return nil
}
