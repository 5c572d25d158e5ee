package menu

import (
	"errors"
	"fmt"
)

// Code classifies errors reported to callers of the menu operations.
type Code string

const (
	CodeNotFound        Code = "NOTFOUND"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotImplemented  Code = "NOT_IMPLEMENTED"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
)

// Sentinels usable with errors.Is against any *Error of the same code.
var (
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument}
	ErrNotImplemented  = &Error{Code: CodeNotImplemented}
	ErrAlreadyExists   = &Error{Code: CodeAlreadyExists}
)

// Error carries a code and a human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on the code so wrapped errors compare against the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func notFound(id string) *Error {
	return newError(CodeNotFound, "menu item doesn't exist: %s", id)
}

func invalidArg(format string, args ...interface{}) *Error {
	return newError(CodeInvalidArgument, format, args...)
}
