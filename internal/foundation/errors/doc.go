// Package errors provides the classified error primitives used across docconvert.
//
// Every failure that leaves a conversion run carries a category and a severity so
// the CLI can map it to an exit code and a log level without string matching.
//
// Key features:
//   - ErrorCategory: broad classification (config, path, filesystem, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit code and message mapping for the command line
//
// Renderer failures are deliberately not classified here; they travel through the
// orchestrator unchanged and surface with exit code 1.
//
// Example usage:
//
//	err := errors.MissingParameter("sourceDirectory")
//
//	err := errors.PathError("cannot resolve destination directory").
//		WithContext("file", path).
//		WithCause(cause).
//		Build()
package errors
