package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUpstreamUnavailable indicates that an external data source could not be reached,
// timed out, or answered with a non-success status.
var ErrUpstreamUnavailable = errors.New("external data source unavailable")

// ErrUpstreamMalformed indicates that an external data source answered with a body
// that could not be parsed or did not carry the required data.
var ErrUpstreamMalformed = errors.New("external data source returned malformed data")

// UpstreamKind classifies an UpstreamError.
type UpstreamKind int

const (
	UpstreamUnavailable UpstreamKind = iota
	UpstreamMalformed
)

// UpstreamError reports a failure of one named external data source.
type UpstreamError struct {
	Source string
	Kind   UpstreamKind
	Err    error
}

// NewUpstreamUnavailable builds an UpstreamError of kind UpstreamUnavailable.
func NewUpstreamUnavailable(source string, err error) *UpstreamError {
	return &UpstreamError{Source: source, Kind: UpstreamUnavailable, Err: err}
}

// NewUpstreamMalformed builds an UpstreamError of kind UpstreamMalformed.
func NewUpstreamMalformed(source string, err error) *UpstreamError {
	return &UpstreamError{Source: source, Kind: UpstreamMalformed, Err: err}
}

func (e *UpstreamError) Error() string {
	what := "could not fetch data from"
	if e.Kind == UpstreamMalformed {
		what = "failed to parse response from"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s", what, e.Source)
	}
	return fmt.Sprintf("%s %s: %v", what, e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an UpstreamError against the sentinel of its kind.
func (e *UpstreamError) Is(target error) bool {
	switch e.Kind {
	case UpstreamUnavailable:
		return target == ErrUpstreamUnavailable
	case UpstreamMalformed:
		return target == ErrUpstreamMalformed
	}
	return false
}

// IsUpstream reports whether err came from an external data source and returns it.
func IsUpstream(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

// AppError carries an HTTP-ish status code alongside a message and the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewDuplicateError creates an AppError that matches ErrDuplicate.
func NewDuplicateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
