// Package asciidoctor renders documents by invoking the asciidoctor command line.
package asciidoctor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	eerrors "git.home.luguber.info/inful/docconvert/internal/engine/errors"
	"git.home.luguber.info/inful/docconvert/internal/extensions"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/logfields"
	"git.home.luguber.info/inful/docconvert/internal/options"
)

// DefaultCommand is the executable looked up on PATH.
const DefaultCommand = "asciidoctor"

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "docbook"

// runner executes a command and returns its captured output.
type runner func(ctx context.Context, name string, args []string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Engine renders one document per asciidoctor invocation.
type Engine struct {
	command  string
	registry *Registry
	run      runner
}

// New locates command on PATH and returns an engine preloading requires.
func New(command string, requires []string) (*Engine, error) {
	if command == "" {
		command = DefaultCommand
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, errors.EngineError("asciidoctor executable not found").
			WithCause(fmt.Errorf("%w: %w", eerrors.ErrCommandNotFound, err)).
			WithContext("command", command).
			Build()
	}
	return newEngine(path, requires, execRunner), nil
}

func newEngine(command string, requires []string, run runner) *Engine {
	reg := &Registry{}
	for _, r := range requires {
		reg.require(r)
	}
	return &Engine{command: command, registry: reg, run: run}
}

// Registry returns the extension registry; registrations become -r libraries.
func (e *Engine) Registry() extensions.Registry {
	return e.registry
}

// RenderFile invokes asciidoctor for path. ctx bounds the child process.
func (e *Engine) RenderFile(ctx context.Context, path string, opts options.OptionSet) error {
	args := e.Args(path, opts)
	slog.Debug("Invoking asciidoctor", logfields.Document(path), slog.Any("args", args))

	stdout, stderr, err := e.run(ctx, e.command, args)
	outStr := string(stdout)
	errStr := string(stderr)
	if outStr != "" {
		slog.Debug("asciidoctor stdout", logfields.Document(path), slog.String("output", outStr))
	}
	if errStr != "" {
		slog.Warn("asciidoctor stderr", logfields.Document(path), slog.String("error_output", errStr))
	}
	if err != nil {
		output := errStr
		if output == "" {
			output = outStr
		}
		if output != "" {
			return fmt.Errorf("%w: %s: %w: %s", eerrors.ErrRenderFailed, path, err, output)
		}
		return fmt.Errorf("%w: %s: %w", eerrors.ErrRenderFailed, path, err)
	}
	return nil
}

// Args builds the command line for rendering path with opts.
func (e *Engine) Args(path string, opts options.OptionSet) []string {
	args := []string{"-S", opts.SafeMode()}
	if v := opts.Backend(); v != "" {
		args = append(args, "-b", v)
	}
	if v := opts.Doctype(); v != "" {
		args = append(args, "-d", v)
	}
	if !opts.HeaderFooter() {
		args = append(args, "-s")
	}
	if v := opts.Eruby(); v != "" {
		args = append(args, "--eruby", v)
	}
	if v := opts.TemplateEngine(); v != "" {
		args = append(args, "-E", v)
	}
	if v := opts.TemplateDir(); v != "" {
		args = append(args, "-T", v)
	}
	if v := opts.BaseDir(); v != "" {
		args = append(args, "-B", v)
	}
	if v := opts.ToDir(); v != "" {
		args = append(args, "-D", v)
	}
	if opts.Compact() {
		args = append(args, "-a", "compact")
	}

	attrs := opts.Attributes()
	for _, key := range attrs.Keys() {
		args = append(args, "-a", attributeArg(key, attrs[key]))
	}
	for _, lib := range e.registry.Libraries() {
		args = append(args, "-r", lib)
	}
	return append(args, path)
}

// attributeArg renders a flag as "name" (set) or "name!" (unset) and text as "name=value".
func attributeArg(key string, v options.AttributeValue) string {
	if b, ok := v.Bool(); ok {
		if b {
			return key
		}
		return key + "!"
	}
	return key + "=" + v.String()
}
