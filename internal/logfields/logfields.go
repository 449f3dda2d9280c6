package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyState      = "state"
	KeyDurationMS = "duration_ms"
	KeySource     = "source"
	KeyOutput     = "output"
	KeyDocument   = "document"
	KeyPath       = "path"
	KeyBaseDir    = "base_dir"
	KeyDestDir    = "dest_dir"
	KeyBackend    = "backend"
	KeyEngine     = "engine"
	KeyCount      = "count"
	KeyKind       = "kind"
	KeyName       = "name"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Document(p string) slog.Attr     { return slog.String(KeyDocument, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func BaseDir(p string) slog.Attr      { return slog.String(KeyBaseDir, p) }
func DestDir(p string) slog.Attr      { return slog.String(KeyDestDir, p) }
func Backend(b string) slog.Attr      { return slog.String(KeyBackend, b) }
func Engine(e string) slog.Attr       { return slog.String(KeyEngine, e) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
