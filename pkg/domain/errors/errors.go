// Package errors defines the production core's error taxonomy. Every
// operation that can fail returns one of these kinds instead of an ad-hoc
// error string, so command handlers can map failures to transport status
// codes without parsing messages.
package errors

import "fmt"

// Kind identifies the class of failure a command handler must translate.
type Kind int

const (
	// InvalidInput covers malformed times, out-of-range ranks, bad
	// quantities, and missing ids.
	InvalidInput Kind = iota
	// InvalidBakeSpec covers a spec field missing or non-positive during
	// scheduling.
	InvalidBakeSpec
	// NotFound covers a simulation, batch, or catering order id that
	// doesn't exist.
	NotFound
	// InvalidState covers an operation not allowed in the current status.
	InvalidState
	// RackConflict covers a placement that overlaps an existing batch.
	RackConflict
	// NoSlotBeforeClose covers a placement that cannot finish by END on
	// any eligible rack.
	NoSlotBeforeClose
	// OvenMismatch covers a placement whose oven disagrees with the
	// spec's fixed oven.
	OvenMismatch
	// CannotFulfil is the catering atomic-failure sentinel.
	CannotFulfil
	// StoreIOError covers a persistence mirror-write failure; it is
	// non-fatal at the simulation level and is never surfaced as an
	// operation failure when the in-memory mutation already succeeded.
	StoreIOError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InvalidBakeSpec:
		return "InvalidBakeSpec"
	case NotFound:
		return "NotFound"
	case InvalidState:
		return "InvalidState"
	case RackConflict:
		return "RackConflict"
	case NoSlotBeforeClose:
		return "NoSlotBeforeClose"
	case OvenMismatch:
		return "OvenMismatch"
	case CannotFulfil:
		return "CannotFulfil"
	case StoreIOError:
		return "StoreIOError"
	default:
		return "Unknown"
	}
}

// Error is a Kind-tagged error. It wraps an optional underlying cause so
// callers can still use errors.Is/errors.As against it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a Kind-tagged error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a Kind-tagged error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a Kind-tagged error around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if err == nil {
		return false
	}
	if ae, ok := err.(*Error); ok {
		e = ae
	} else {
		return false
	}
	return e.Kind == kind
}

// As extracts the *Error from err, if any.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
