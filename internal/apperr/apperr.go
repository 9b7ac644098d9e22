// Package apperr classifies failures so transport layers can map them to
// status codes without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindBadRequest is a missing or malformed client-supplied value.
	KindBadRequest Kind = "BAD_REQUEST"
	// KindNotFound is an unknown device, command, or media file.
	KindNotFound Kind = "NOT_FOUND"
	// KindInternal is a storage or filesystem failure.
	KindInternal Kind = "INTERNAL"
)

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

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsBadRequest(err error) bool {
	return err != nil && KindOf(err) == KindBadRequest
}
