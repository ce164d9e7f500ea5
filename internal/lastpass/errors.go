package lastpass

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every error returned by this package matches
// exactly one of them with errors.Is.
var (
	ErrExecutableNotFound = errors.New("lpass executable not found")
	ErrInvalidOptions     = errors.New("invalid lookup options")
	ErrSessionNotReady    = errors.New("lastpass session not ready")
	ErrProcessFailed      = errors.New("lpass command failed")
	ErrAmbiguousMatch     = errors.New("multiple lastpass entries match")
	ErrMalformedOutput    = errors.New("malformed lpass output")
)

// LookupError carries the failing target and any text lpass printed.
type LookupError struct {
	Kind   error  // one of the sentinels above
	Target string // empty for status and construction errors
	Detail string // stdout/stderr fragment or validation message
	Err    error  // underlying cause, if any
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case ErrExecutableNotFound:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case ErrInvalidOptions:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case ErrSessionNotReady:
		if e.Err != nil {
			return fmt.Sprintf("lastpass status error: %v", e.Err)
		}
		return fmt.Sprintf("lastpass status error: %s", e.Detail)
	case ErrProcessFailed:
		if e.Err != nil {
			return fmt.Sprintf("lastpass error retrieving data for %s: %v", e.Target, e.Err)
		}
		return fmt.Sprintf("lastpass error retrieving data for %s: %s", e.Target, e.Detail)
	case ErrAmbiguousMatch:
		return fmt.Sprintf("lastpass found multiple matches for %s, use a unique name or id", e.Target)
	case ErrMalformedOutput:
		return fmt.Sprintf("lastpass returned malformed output for %s: %s", e.Target, e.Detail)
	}
	return fmt.Sprintf("lastpass error: %s", e.Detail)
}

// Is matches the error's Kind.
func (e *LookupError) Is(target error) bool {
	return target == e.Kind
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// KindName returns a short stable label for err, used in metrics.
func KindName(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrExecutableNotFound):
		return "executable_not_found"
	case errors.Is(err, ErrInvalidOptions):
		return "invalid_options"
	case errors.Is(err, ErrSessionNotReady):
		return "session_not_ready"
	case errors.Is(err, ErrProcessFailed):
		return "process_failed"
	case errors.Is(err, ErrAmbiguousMatch):
		return "ambiguous_match"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed_output"
	}
	return "error"
}

func invalidOptions(msg string) error {
	return &LookupError{Kind: ErrInvalidOptions, Detail: msg}
}
