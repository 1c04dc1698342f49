package document

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadDocument     = NewError("failed to read document")
	ErrDecodeDocument   = NewError("failed to decode document")
	ErrDuplicateField   = NewError("duplicate field identifier")
	ErrMissingField     = NewError("field identifier is required")
	ErrUnknownKind      = NewError("unknown field kind")
	ErrMissingFormula   = NewError("formula field has no formula")
	ErrInvalidValue     = NewError("invalid field value")
	ErrUnknownColumn    = NewError("unknown column")
	ErrRowOutOfRange    = NewError("row index out of range")
	ErrNotCollection    = NewError("field is not a collection")
	ErrNotFormula       = NewError("field is not a formula")
	ErrReadOnlyField    = NewError("field value is computed")
	ErrFieldNotFound    = NewError("field not found")
	ErrInvalidOption    = NewError("value is not an allowed option")
	ErrDocumentNotFound = NewError("document not found in search path")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message, so a
// wrapped or annotated copy still matches its sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: newAttrs}
}
