// Package apperr defines the error kinds shared by usecases and the HTTP
// layer. Usecases return *Error values; delivery code maps the kind to a
// status code in one place (see Status).
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindMissingToken
	KindExpiredToken
	KindInvalidToken
	KindInference
	KindTooLarge
	KindNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindMissingToken:
		return "missing_token"
	case KindExpiredToken:
		return "expired_token"
	case KindInvalidToken:
		return "invalid_token"
	case KindInference:
		return "inference"
	case KindTooLarge:
		return "too_large"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error carries a kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrValidation)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInternal     = &Error{Kind: KindInternal}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrAuth         = &Error{Kind: KindAuth}
	ErrMissingToken = &Error{Kind: KindMissingToken}
	ErrExpiredToken = &Error{Kind: KindExpiredToken}
	ErrInvalidToken = &Error{Kind: KindInvalidToken}
	ErrInference    = &Error{Kind: KindInference}
	ErrTooLarge     = &Error{Kind: KindTooLarge}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrForbidden    = &Error{Kind: KindForbidden}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }
func Conflict(msg string) *Error   { return New(KindConflict, msg) }
func Auth(msg string) *Error       { return New(KindAuth, msg) }
func NotFound(msg string) *Error   { return New(KindNotFound, msg) }
func Forbidden(msg string) *Error  { return New(KindForbidden, msg) }
func TooLarge(msg string) *Error   { return New(KindTooLarge, msg) }

// Inference reports a decode or classifier failure. The cause is part of the
// message.
func Inference(err error) *Error {
	return Wrap(KindInference, "prediction failed: "+err.Error(), err)
}

func Internal(err error) *Error {
	return Wrap(KindInternal, "internal server error", err)
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal
// for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps a kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth, KindMissingToken, KindExpiredToken, KindInvalidToken:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to a client. Internal errors
// never expose their cause.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "internal server error"
	}
	return e.Error()
}
