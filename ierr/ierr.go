// Package ierr holds the sentinel error kinds spec.md §7 names, shared
// across packages so callers can match with errors.Is regardless of
// which package raised the error.
package ierr

import "errors"

var (
	// ErrInvalidArgument: malformed pinyin/code, non-ASCII in an
	// ASCII-only buffer, odd-length encoded pinyin, cursor past end, a
	// UserDict removal attempt.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidFormat: truncated or version-mismatched binary file, text
	// format violation.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrIOError wraps a failure propagated from a stream operation.
	ErrIOError = errors.New("io error")
	// ErrOutOfRange: random-access into a buffer or lattice past its
	// bounds.
	ErrOutOfRange = errors.New("out of range")
)
