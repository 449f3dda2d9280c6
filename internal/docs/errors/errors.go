// Package errors provides sentinel errors for source discovery.
// They are wrapped inside classified errors so callers can match with errors.Is.
package errors

import "errors"

var (
	// ErrSourceRootNotFound indicates the configured source directory does not exist.
	ErrSourceRootNotFound = errors.New("source directory not found")

	// ErrSourceRootUnreadable indicates the source directory exists but cannot be listed.
	ErrSourceRootUnreadable = errors.New("source directory unreadable")

	// ErrSourceRootNotDir indicates the source path is not a directory.
	ErrSourceRootNotDir = errors.New("source path is not a directory")

	// ErrDirectoryUnreadable indicates a subdirectory could not be listed and was skipped.
	ErrDirectoryUnreadable = errors.New("directory unreadable")

	// ErrScanConsumed indicates a scan sequence was ranged over more than once.
	ErrScanConsumed = errors.New("scan sequence already consumed")
)
