package services

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a service failure so the HTTP layer can pick a status.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is returned by every service method. Message is user facing; Err keeps the cause.
type Error struct {
	Kind    Kind
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && !strings.Contains(e.Message, e.Err.Error()) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func badRequest(key, msg string) *Error {
	return &Error{Kind: KindBadRequest, Key: key, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// internal wraps cause. The message follows the "<action> : <cause>" form shown to clients.
func internal(msg string, cause error) *Error {
	if cause != nil {
		msg = msg + " : " + cause.Error()
	}
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

// KindOf reports the kind of err. Errors that are not *Error count as internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
