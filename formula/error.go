package formula

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// ErrorKind classifies a formula failure.
type ErrorKind int

const (
	// KindSyntax is produced only by lexing and parsing.
	KindSyntax ErrorKind = iota

	// KindInvalidReference reports a path that does not resolve.
	KindInvalidReference

	// KindTypeMismatch reports operands of an unsupported kind.
	KindTypeMismatch

	// KindInvalidArguments reports a function called with bad arguments.
	KindInvalidArguments

	// KindDivisionByZero reports a division with a zero divisor.
	KindDivisionByZero

	// KindCircularReference reports a formula that depends on itself.
	KindCircularReference

	// KindUnknown is the catch-all for unimplemented operators and functions.
	KindUnknown
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"

	case KindInvalidReference:
		return "invalid reference"

	case KindTypeMismatch:
		return "type mismatch"

	case KindInvalidArguments:
		return "invalid arguments"

	case KindDivisionByZero:
		return "division by zero"

	case KindCircularReference:
		return "circular reference"

	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind. [Error.Is] matches any *Error of the same
// kind, so errors.Is(err, ErrDivisionByZero) works regardless of payload.
var (
	ErrSyntax            = &Error{Kind: KindSyntax}
	ErrInvalidReference  = &Error{Kind: KindInvalidReference}
	ErrTypeMismatch      = &Error{Kind: KindTypeMismatch}
	ErrInvalidArguments  = &Error{Kind: KindInvalidArguments}
	ErrDivisionByZero    = &Error{Kind: KindDivisionByZero}
	ErrCircularReference = &Error{Kind: KindCircularReference}
	ErrUnknown           = &Error{Kind: KindUnknown}
)

// Error is the single failure type of the formula engine. Which payload
// fields are meaningful depends on Kind:
//
//	KindSyntax            Message, Pos
//	KindInvalidReference  Path
//	KindTypeMismatch      Expected, Actual
//	KindInvalidArguments  Function, Reason
//	KindDivisionByZero    (none)
//	KindCircularReference Path, Message (the dependency chain)
//	KindUnknown           Message
type Error struct {
	Kind     ErrorKind
	Message  string
	Path     string
	Expected string
	Actual   string
	Function string
	Reason   string
	Pos      int

	attrs []slog.Attr
}

// SyntaxError returns a syntax error at byte offset pos of the source.
func SyntaxError(pos int, msg string) *Error {
	return &Error{Kind: KindSyntax, Message: msg, Pos: pos}
}

// InvalidReference returns an error for an unresolvable path.
func InvalidReference(path string) *Error {
	return &Error{Kind: KindInvalidReference, Path: path}
}

// TypeMismatch returns an error describing the expected and actual kinds.
func TypeMismatch(expected, actual string) *Error {
	return &Error{Kind: KindTypeMismatch, Expected: expected, Actual: actual}
}

// InvalidArguments returns an error for a function called with bad arguments.
func InvalidArguments(function, reason string) *Error {
	return &Error{Kind: KindInvalidArguments, Function: function, Reason: reason}
}

// DivisionByZero returns a division-by-zero error.
func DivisionByZero() *Error {
	return &Error{Kind: KindDivisionByZero}
}

// CircularReference returns an error naming the field that was re-entered.
// The description is the chain of fields that led back to it.
func CircularReference(field, description string) *Error {
	return &Error{Kind: KindCircularReference, Path: field, Message: description}
}

// UnknownError returns a catch-all error.
func UnknownError(msg string) *Error {
	return &Error{Kind: KindUnknown, Message: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindSyntax:
		if e.Message == "" {
			return "syntax error"
		}

		return "syntax error at offset " + strconv.Itoa(e.Pos) + ": " + e.Message

	case KindInvalidReference:
		return "invalid reference: " + e.Path

	case KindTypeMismatch:
		return "type mismatch: expected " + e.Expected + ", got " + e.Actual

	case KindInvalidArguments:
		return "invalid arguments to " + e.Function + ": " + e.Reason

	case KindDivisionByZero:
		return "division by zero"

	case KindCircularReference:
		if e.Message == "" {
			return "circular reference: " + e.Path
		}

		return "circular reference at " + e.Path + ": " + e.Message

	default:
		if e.Message == "" {
			return "unknown error"
		}

		return e.Message
	}
}

// Tag returns the inline textual form used when an error is concatenated
// into a string, e.g. "#DIV/0!" or "#REF!(items.price)".
func (e *Error) Tag() string {
	switch e.Kind {
	case KindSyntax:
		return "#SYNTAX!(" + e.Message + ")"

	case KindInvalidReference:
		return "#REF!(" + e.Path + ")"

	case KindTypeMismatch:
		return "#TYPE!(" + e.Expected + "," + e.Actual + ")"

	case KindInvalidArguments:
		return "#ARGS!(" + e.Function + ":" + e.Reason + ")"

	case KindDivisionByZero:
		return "#DIV/0!"

	case KindCircularReference:
		desc := e.Message
		if desc == "" {
			desc = e.Path
		}

		return "#CIRC!(" + desc + ")"

	default:
		return "#ERROR!(" + e.Message + ")"
	}
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Kind == e.Kind
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)
	attrs = append(attrs,
		slog.String("kind", e.Kind.String()),
		slog.String("error", e.Error()),
	)

	if e.Kind == KindSyntax {
		attrs = append(attrs, slog.Int("pos", e.Pos))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// With returns a copy of the error carrying additional structured logging
// attributes. The receiver is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// asError converts any error into an *Error, wrapping foreign errors as
// KindUnknown.
func asError(err error) *Error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	return UnknownError(strings.TrimSpace(err.Error()))
}
