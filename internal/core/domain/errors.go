package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure crossing the request boundary.
type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindHTTP       Kind = "http"
	KindParse      Kind = "parse"
	KindTransport  Kind = "transport"
	KindValidation Kind = "validation"
)

// Error is the single error type callers see from the gateway and the auth
// service. Message is display-ready; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// NewHTTPError builds a KindHTTP error for a non-2xx response.
func NewHTTPError(status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &Error{Kind: KindHTTP, Status: status, Message: msg}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, ErrTimeout)
// works for any timeout regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Kind-only targets for errors.Is.
var (
	ErrTimeout    = &Error{Kind: KindTimeout}
	ErrHTTP       = &Error{Kind: KindHTTP}
	ErrParse      = &Error{Kind: KindParse}
	ErrTransport  = &Error{Kind: KindTransport}
	ErrValidation = &Error{Kind: KindValidation}
)

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

var ErrInvalidRole = NewError(KindValidation, "role must be vendor or distributor", nil)

// Session controller errors.
var (
	ErrSessionBusy  = errors.New("another session operation is in progress")
	ErrSessionReset = errors.New("session was reset while the operation was in flight")
	ErrNotLoggedIn  = errors.New("not logged in")
)
