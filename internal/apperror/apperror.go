// Package apperror classifies failures so the HTTP layer can pick a status
// without knowing which component produced them.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInternal     Kind = "InternalError"
	KindNotFound     Kind = "NotFound"
	KindValidation   Kind = "ValidationError"
	KindConflict     Kind = "Conflict"
	KindIO           Kind = "IOFailure"
	KindExternal     Kind = "ExternalServiceFailure"
	KindUnauthorized Kind = "Unauthorized"
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindExternal:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

// IO wraps a storage or codec failure.
func IO(err error, format string, args ...any) *Error {
	e := newError(KindIO, format, args...)
	e.Err = err
	return e
}

// External wraps a failure of a delivery service (mail, SMS, broker).
func External(err error, format string, args ...any) *Error {
	e := newError(KindExternal, format, args...)
	e.Err = err
	return e
}

// KindOf returns the kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// InsufficientStockError reports a stock decrement that could not be applied.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}

// Unwrap lets KindOf classify the error as a conflict.
func (e *InsufficientStockError) Unwrap() error {
	return &Error{Kind: KindConflict, Message: e.Error()}
}
