// Package errors defines the typed error kinds surfaced by the client and
// wires them to github.com/pkg/errors for wrapping and cause extraction.
package errors

import (
	"fmt"

	"github.com/pkg/errors"

	pqlog "github.com/pq-async/pqgo/logging"
)

// Kind classifies a failure the way §7 of the design enumerates them.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnectionFailure
	KindServerError
	KindProtocolViolation
	KindTypeMismatch
	KindUnsupportedFormat
	KindDomainError
	KindOverflow
	KindNullValue
	KindUnknownColumn
	KindInvalidArgument
	KindPoolExhausted
	KindCancelled
	KindCallbackDoubleFired
)

func (k Kind) String() string {
	switch k {
	case KindConnectionFailure:
		return "connection-failure"
	case KindServerError:
		return "server-error"
	case KindProtocolViolation:
		return "protocol-violation"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindUnsupportedFormat:
		return "unsupported-format"
	case KindDomainError:
		return "domain-error"
	case KindOverflow:
		return "overflow"
	case KindNullValue:
		return "null-value"
	case KindUnknownColumn:
		return "unknown-column"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindPoolExhausted:
		return "pool-exhausted"
	case KindCancelled:
		return "cancelled"
	case KindCallbackDoubleFired:
		return "callback-double-fired"
	default:
		return "unknown"
	}
}

// Error is the typed error object described in §6: a kind, an optional
// SQLSTATE, a message and an optional hint.
type Error struct {
	Kind     Kind
	SQLState string
	Hint     string
	cause    error
}

func (e *Error) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.SQLState, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.cause)
}

// Cause implements github.com/pkg/errors' causer interface.
func (e *Error) Cause() error { return e.cause }

// Unwrap supports errors.Is/errors.As from the standard library too.
func (e *Error) Unwrap() error { return e.cause }

// New builds a typed Error wrapping msg with errors.New, attaching a stack
// trace the way the rest of this module's error sites expect.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Wrap attaches a kind to an existing error, preserving it as the cause.
func Wrap(kind Kind, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(err, msg)}
}

// Wrapf is Wrap with fmt.Sprintf-style formatting of the message.
func Wrapf(kind Kind, err error, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrapf(err, format, args...)}
}

// WithSQLState attaches a SQLSTATE code, mutating and returning e for
// chaining at the construction site.
func (e *Error) WithSQLState(code string) *Error {
	e.SQLState = code
	return e
}

// WithHint attaches an optional hint string.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// Is reports whether err is a typed Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// ErrReentrantBlockingCall is returned when a blocking handle method is
// invoked from within a task already running on that handle's strand —
// the safe interpretation of the Open Question in spec §9.
var ErrReentrantBlockingCall = New(KindInvalidArgument,
	"blocking call issued from within a task running on the same queue")

// Fatal logs err at fatal level through the logging facade and terminates
// the process. Reserved for library-invariant violations: a double-fired
// callback or internal state corruption, per §7.
var FatalHandler func(err error) = func(err error) {
	pqlog.Fatalf("%+v", err)
}

// Fatal reports a library-invariant violation.
func Fatal(err error) {
	FatalHandler(err)
}
