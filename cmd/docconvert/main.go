package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docconvert/cmd/docconvert/commands"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("docconvert"),
		kong.Description("Batch conversion of markup documents into an output tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	err := parser.Run(global, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
