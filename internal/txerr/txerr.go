// Package txerr holds the error kinds spec.md §7 calls out as
// surfaced to callers (as opposed to the programmer-error panics
// an out-of-range id or sentinel misuse triggers).
package txerr

import "errors"

var (
	// ErrInvalidInputSchedule means a raw table row was malformed
	// (non-parsable time, dangling foreign key). Optimizer builds
	// abort on this.
	ErrInvalidInputSchedule = errors.New("invalid input schedule")
	// ErrUnknownStopArea means an origin or destination name matched
	// no station.
	ErrUnknownStopArea = errors.New("unknown stop area")
	// ErrEmptyServiceDate means no trips operate on the requested
	// date. Not fatal — callers may still run the search and get an
	// all-unreached result.
	ErrEmptyServiceDate = errors.New("no trips operate on this date")
)
