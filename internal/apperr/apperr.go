// Package apperr defines the error kinds surfaced to callers of the dispatch
// service: NotFound, InvalidState and BadRequest.
package apperr

import (
	"context"
	"errors"
	"net/http"

	"taxi24/internal/repository"
)

// Kind classifies an error for callers.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindNotFound
	KindInvalidState
)

// String returns the short label used in error envelopes.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidState:
		return "invalid state"
	default:
		return "bad request"
	}
}

// StatusCode maps the kind to an HTTP status code.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// KindFromStatus is the inverse of StatusCode. Unknown codes map to BadRequest.
func KindFromStatus(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindInvalidState
	default:
		return KindBadRequest
	}
}

// Error is a classified error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrBadRequest   = &Error{Kind: KindBadRequest}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when the target is a bare sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

// NotFound returns a NotFound error.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidState returns an InvalidState error.
func InvalidState(msg string) error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

// BadRequest returns a BadRequest error.
func BadRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// Wrap classifies err under kind, keeping it in the chain.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Classify gives err a stable kind. Already classified errors pass through
// unchanged, repository.ErrNotFound becomes NotFound and everything else is
// reported as BadRequest.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, repository.ErrNotFound) {
		return Wrap(KindNotFound, "resource not found", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindBadRequest, "request timed out", err)
	}
	return Wrap(KindBadRequest, err.Error(), err)
}
