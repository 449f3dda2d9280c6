package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-123")
	ctx = WithStage(ctx, "rendering")
	ctx = WithDocument(ctx, "guide/index.adoc")

	lc := GetContext(ctx)
	if lc.RunID != "run-123" {
		t.Errorf("expected run-123, got %s", lc.RunID)
	}
	if lc.Stage != "rendering" {
		t.Errorf("expected rendering, got %s", lc.Stage)
	}
	if lc.Document != "guide/index.adoc" {
		t.Errorf("expected guide/index.adoc, got %s", lc.Document)
	}
}

func TestStageOverride(t *testing.T) {
	ctx := WithStage(context.Background(), "preparing")
	ctx = WithStage(ctx, "mirroring")
	if got := GetContext(ctx).Stage; got != "mirroring" {
		t.Errorf("expected mirroring, got %s", got)
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id is not a uuid: %v", err)
	}
	if id == NewRunID() {
		t.Fatal("run ids should be unique")
	}
}

func TestContextLoggingIncludesAttributes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithStage(WithRunID(context.Background(), "r-1"), "mirroring")
	InfoContext(ctx, "copied", slog.Int("files", 2))
	DebugContext(ctx, "detail")
	WarnContext(ctx, "careful")
	ErrorContext(ctx, "broken")

	out := buf.String()
	for _, want := range []string{"run.id=r-1", "stage=mirroring", "files=2", "level=DEBUG", "level=WARN", "level=ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output:\n%s", want, out)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "JSON").Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected json output, got %s", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, slog.LevelInfo, "").Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info level, got %s", buf.String())
	}
}
