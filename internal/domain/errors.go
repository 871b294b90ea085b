package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict signals that the target document already has a job in
	// flight; callers should retry after the current job settles.
	ErrConflict = errors.New("generation already in progress")
	// ErrConfiguration marks a missing service credential. Fatal for the
	// operation, never retried, and never papered over with mock content.
	ErrConfiguration = errors.New("service not configured")
	// ErrUpstreamTimeout is surfaced after the model fallback ladder is
	// exhausted by timeouts.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstream covers non-timeout transport or API failures; these are
	// surfaced immediately without retry.
	ErrUpstream = errors.New("upstream failure")
	// ErrValidation marks client-correctable input problems, distinct from
	// upstream failures (e.g. required template keys unresolved).
	ErrValidation = errors.New("validation failed")
	// ErrRender marks a failure of the external rendering dependency.
	ErrRender = errors.New("render failed")
)

// MalformedResponseError wraps an unparseable upstream payload. The raw text
// is kept for diagnostics; content is never guessed at or auto-corrected.
type MalformedResponseError struct {
	Raw    string
	Reason error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed upstream response: %v", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Reason }
