package errors

// Package errors provides sentinel errors for the renderer adapters.
// Render failures are returned to callers wrapped around these sentinels.

import "errors"

var (
	// ErrCommandNotFound indicates the asciidoctor executable was not detected on PATH.
	ErrCommandNotFound = errors.New("asciidoctor command not found")
	// ErrRenderFailed indicates the renderer could not convert a document.
	ErrRenderFailed = errors.New("render failed")
	// ErrUnsupportedBackend indicates the renderer cannot produce the requested backend.
	ErrUnsupportedBackend = errors.New("unsupported backend")
	// ErrTemplateDir indicates the template directory could not be read.
	ErrTemplateDir = errors.New("template directory unreadable")
	// ErrUnknownExtension indicates a required library or extension name is not known.
	ErrUnknownExtension = errors.New("unknown extension")
	// ErrUnknownEngine indicates the configured engine name is not supported.
	ErrUnknownEngine = errors.New("unknown engine")
)
