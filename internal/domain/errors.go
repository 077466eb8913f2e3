package domain

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies failures of the docs pipeline.
type ErrorKind int

const (
	// KindInternal marks a failure while producing an export.
	KindInternal ErrorKind = iota
	// KindNotFound marks an unknown project or a missing stored artifact.
	KindNotFound
	// KindBadInput marks input that yielded nothing to work with.
	KindBadInput
)

// String returns the machine readable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadInput:
		return "bad_input"
	default:
		return "internal"
	}
}

// Error is the error type returned by the pipeline operations.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is matching on the kind only.
var (
	ErrNotFound = &Error{Kind: KindNotFound}
	ErrBadInput = &Error{Kind: KindBadInput}
	ErrInternal = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// HTTPStatus maps the kind onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine readable error code.
func (e *Error) Code() string {
	return e.Kind.String()
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// BadInput builds a KindBadInput error.
func BadInput(format string, args ...any) error {
	return &Error{Kind: KindBadInput, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps cause into a KindInternal error.
func Internal(message string, cause error) error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}
