package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docconvert/internal/config"
	"git.home.luguber.info/inful/docconvert/internal/convert"
	"git.home.luguber.info/inful/docconvert/internal/foundation/errors"
	"git.home.luguber.info/inful/docconvert/internal/options"
	"git.home.luguber.info/inful/docconvert/internal/testutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// project lays out a goldmark project and returns its loaded configuration.
func project(t *testing.T) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.DefaultPath), `source:
  directory: docs
  extensions: .md
output:
  directory: out
  preserve_directories: true
render:
  engine: goldmark
  backend: html5
  header_footer: false
attributes:
  values:
    - {key: product, value: DocConvert}
resources:
  - directory: images
    includes: ["*.png"]
`)
	testutil.WriteTree(t, filepath.Join(dir, "docs"), map[string]string{
		"intro.md":            "# About {product}\n",
		"guide/setup.md":      "# Setup\n",
		"_partials/shared.md": "# Shared\n",
		"images/logo.png":     "PNG",
		"images/notes.txt":    "skip",
	})

	cfg, err := config.Load(filepath.Join(dir, config.DefaultPath))
	require.NoError(t, err)
	return dir, cfg
}

func TestRunnerConvertsProject(t *testing.T) {
	dir, cfg := project(t)
	metricsFile := filepath.Join(dir, "docconvert.prom")

	var out bytes.Buffer
	r, err := NewRunner(cfg, metricsFile, &out)
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, convert.StateDone, res.State)
	assert.Len(t, res.Rendered, 2)
	assert.Equal(t, 1, res.ResourcesCopied)

	testutil.NewTree(t, filepath.Join(dir, "out")).
		HasExactly("intro.html", "guide/setup.html", "images/logo.png").
		Contains("intro.html", "About DocConvert").
		Lacks("_partials")

	assert.Contains(t, out.String(), "Converted 2 document(s)")
	assert.Contains(t, out.String(), "Copied 1 resource file(s)")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `docconvert_run_outcomes_total{outcome="success"} 1`)
}

func TestRunnerMissingSource(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Output.Directory = "out"
	r, err := NewRunner(cfg, "", &bytes.Buffer{})
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	field, ok := errors.IsMissingParameter(err)
	require.True(t, ok)
	assert.Equal(t, "sourceDirectory", field)
}

func TestRunDiscover(t *testing.T) {
	dir, cfg := project(t)
	var out bytes.Buffer
	require.NoError(t, RunDiscover(context.Background(), cfg, &out))

	text := out.String()
	assert.Contains(t, text, "intro.md -> "+filepath.Join(dir, "out"))
	assert.Contains(t, text, filepath.Join("guide", "setup.md")+" -> "+filepath.Join(dir, "out", "guide"))
	assert.NotContains(t, text, "shared.md")
	assert.Contains(t, text, "2 document(s) discovered")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestRunFlagsApply(t *testing.T) {
	_, cfg := project(t)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	flags := RunFlags{
		Source:     "alt-src",
		Output:     "/tmp/alt-out",
		Document:   "intro.md",
		Extensions: ".markdown",
		Engine:     "Asciidoctor",
		Backend:    "DocBook",
		Attributes: []string{"toc", "icons=font", "sectnums!"},
	}
	require.NoError(t, flags.Apply(cfg))
	assert.Equal(t, filepath.Join(cwd, "alt-src"), cfg.Source.Directory)
	assert.Equal(t, "/tmp/alt-out", cfg.Output.Directory)
	assert.Equal(t, "intro.md", cfg.Source.Document)
	assert.Equal(t, ".markdown", cfg.Source.Extensions)
	assert.Equal(t, "asciidoctor", cfg.Render.Engine)
	assert.Equal(t, "docbook", cfg.Render.Backend)
	assert.Equal(t, []options.AttributePair{
		{Key: "product", Value: "DocConvert"},
		{Key: "toc", Value: "true"},
		{Key: "icons", Value: "font"},
		{Key: "sectnums", Value: "false"},
	}, cfg.Attributes.Values)

	bad := RunFlags{Engine: "pandoc"}
	err = bad.Apply(cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestEngineFlagSelectsMatchingBackend(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, filepath.Join(dir, "docs"), map[string]string{"intro.md": "# Intro\n"})
	cfg := config.Default(dir)

	flags := RunFlags{
		Source:     filepath.Join(dir, "docs"),
		Output:     filepath.Join(dir, "out"),
		Extensions: ".md",
		Engine:     "goldmark",
	}
	require.NoError(t, flags.Apply(cfg))
	assert.Equal(t, "html5", cfg.Render.Backend)

	r, err := NewRunner(cfg, "", &bytes.Buffer{})
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Rendered, 1)
	assert.FileExists(t, filepath.Join(dir, "out", "intro.html"))
}

func TestEngineFlagKeepsExplicitBackend(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Render.Backend = "xhtml5"
	require.NoError(t, (&RunFlags{Engine: "goldmark"}).Apply(cfg))
	assert.Equal(t, "xhtml5", cfg.Render.Backend)

	err := (&RunFlags{Backend: "docbook"}).Apply(cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestParseAttributesRejectsEmptyKey(t *testing.T) {
	_, err := ParseAttributes([]string{"=value"})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cli := &CLI{Config: config.DefaultPath}
	cfg, err := cli.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, config.DefaultBackend, cfg.Render.Backend)

	cli.Config = "custom.yaml"
	_, err = cli.loadConfig()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestMetricsFilePrecedence(t *testing.T) {
	cfg := config.Default("/work")
	cfg.Metrics.Textfile = "metrics/run.prom"
	assert.Equal(t, "/work/metrics/run.prom", (&CLI{}).metricsFile(cfg))
	assert.Equal(t, "/tmp/flag.prom", (&CLI{MetricsFile: "/tmp/flag.prom"}).metricsFile(cfg))
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	level, fixed := parseLogLevel(true)
	assert.Equal(t, "DEBUG", level.String())
	assert.True(t, fixed)

	_, fixed = parseLogLevel(false)
	assert.False(t, fixed)

	t.Setenv(LogLevelEnv, "error")
	level, fixed = parseLogLevel(false)
	assert.Equal(t, "ERROR", level.String())
	assert.True(t, fixed)
}

func TestKongParsesConvertFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("docconvert"), kong.Vars{"version": "test"}, kong.Bind(&Global{}), kong.Exit(func(int) {}))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"-c", "site.yaml", "convert", "-s", "src", "-o", "out", "-a", "toc", "-a", "icons=font", "--preserve-directories", "--engine", "goldmark"})
	require.NoError(t, err)
	assert.Equal(t, "convert", kctx.Command())
	assert.Equal(t, "site.yaml", cli.Config)
	assert.Equal(t, "src", cli.Convert.Source)
	assert.Equal(t, "out", cli.Convert.Output)
	assert.True(t, cli.Convert.Preserve)
	assert.Equal(t, "goldmark", cli.Convert.Engine)
	assert.Equal(t, []string{"toc", "icons=font"}, cli.Convert.Attributes)

	kctx, err = parser.Parse([]string{"watch", "--debounce", "1s"})
	require.NoError(t, err)
	assert.Equal(t, "watch", kctx.Command())
	assert.Equal(t, time.Second, cli.Watch.Debounce)
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultPath)
	require.NoError(t, RunInit(path, false))
	assert.FileExists(t, path)
	require.Error(t, RunInit(path, false))
}

func TestRunWatchConvertsUntilCancelled(t *testing.T) {
	dir, cfg := project(t)
	r, err := NewRunner(cfg, "", &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunWatch(ctx, r, 50*time.Millisecond) }()

	require.Eventually(t, func() bool {
		_, statErr := os.Stat(filepath.Join(dir, "out", "intro.html"))
		return statErr == nil
	}, 5*time.Second, 20*time.Millisecond)

	writeFile(t, filepath.Join(dir, "docs", "new.md"), "# New\n")
	require.Eventually(t, func() bool {
		_, statErr := os.Stat(filepath.Join(dir, "out", "new.html"))
		return statErr == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
