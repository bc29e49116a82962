// Package errors defines the coded errors shared by the plotkit libraries,
// the CLI and the HTTP API.
//
// Every code belongs to a [Class]. The CLI uses the class to choose an exit
// message and the API maps it to an HTTP status, so new codes only need an
// entry in the class table:
//
//	INVALID_*    ClassInvalid   malformed blueprints, shapes, paths, input
//	*NOT_FOUND   ClassNotFound  unknown blueprint, plot or file
//	CONFLICT     ClassConflict  a write collides with stored data
//	INTERNAL_*   ClassInternal  storage failures and bugs
//
// Degenerate input that is still valid, such as an empty plot or zero total
// abundance, is never an error; callers get zero-valued results instead.
//
//	err := errors.New(errors.ErrCodeInvalidShape, "unsupported shape kind %q", kind)
//	if errors.ClassOf(err) == errors.ClassInvalid {
//	    // reject the request
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code. Codes are stable strings and
// appear in API error bodies.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidBlueprint Code = "INVALID_BLUEPRINT"
	ErrCodeInvalidShape     Code = "INVALID_SHAPE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeBlueprintNotFound Code = "BLUEPRINT_NOT_FOUND"
	ErrCodePlotNotFound      Code = "PLOT_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	ErrCodeConflict Code = "CONFLICT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes that callers handle the same way.
type Class int

const (
	// ClassNone is reported for errors without a code.
	ClassNone Class = iota
	ClassInvalid
	ClassNotFound
	ClassConflict
	ClassInternal
)

var classes = map[Code]Class{
	ErrCodeInvalidInput:      ClassInvalid,
	ErrCodeInvalidBlueprint:  ClassInvalid,
	ErrCodeInvalidShape:      ClassInvalid,
	ErrCodeInvalidPath:       ClassInvalid,
	ErrCodeInvalidConfig:     ClassInvalid,
	ErrCodeNotFound:          ClassNotFound,
	ErrCodeBlueprintNotFound: ClassNotFound,
	ErrCodePlotNotFound:      ClassNotFound,
	ErrCodeFileNotFound:      ClassNotFound,
	ErrCodeConflict:          ClassConflict,
	ErrCodeInternal:          ClassInternal,
	ErrCodeUnsupported:       ClassInternal,
}

// Class returns the class of c. Unregistered codes are internal.
func (c Code) Class() Class {
	if c == "" {
		return ClassNone
	}
	if cl, ok := classes[c]; ok {
		return cl
	}
	return ClassInternal
}

// Error carries a code, a message meant for users, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error that keeps cause in the chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Annotate is Wrap that keeps the code of an already coded cause, so
// callers adding context do not hide a more specific code. code applies
// only when cause carries none.
func Annotate(code Code, cause error, format string, args ...any) *Error {
	if inner := GetCode(cause); inner != "" {
		code = inner
	}
	return Wrap(code, cause, format, args...)
}

// Is reports whether any *Error in err's chain has code. Both the outermost
// code and codes of wrapped causes match.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ClassOf returns the class of err's outermost code.
func ClassOf(err error) Class { return GetCode(err).Class() }

func IsNotFound(err error) bool { return ClassOf(err) == ClassNotFound }
func IsInvalid(err error) bool  { return ClassOf(err) == ClassInvalid }

// UserMessage strips the code prefix and cause from coded errors. Other
// errors are returned as their Error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
