// Package errors defines the coded errors figslides reports to users.
//
// Every failure that reaches the CLI or an HTTP client carries a [Code].
// The code picks the HTTP status and the CLI exit status, and travels in
// the JSON error body so callers can branch on it:
//
//	{"error": "no slides provided", "code": "NO_SLIDES", "details": "..."}
//
// Problems with a single layer (an unknown type, an image that does not
// decode) never become errors. The layer is skipped and the reason is kept
// in the plan.
//
//	if len(doc.Slides) == 0 {
//	    return errors.New(errors.ErrCodeNoSlides, "no slides provided")
//	}
//	return errors.Wrap(errors.ErrCodeRender, err, "write presentation")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeNoSlides      Code = "NO_SLIDES"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeTooLarge      Code = "PAYLOAD_TOO_LARGE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeRender      Code = "RENDER_FAILED"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeNoSlides:      http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeInvalidConfig: http.StatusBadRequest,
	ErrCodeInvalidPath:   http.StatusBadRequest,
	ErrCodeTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeFileNotFound:  http.StatusNotFound,
	ErrCodeTimeout:       http.StatusGatewayTimeout,
	ErrCodeUnsupported:   http.StatusNotImplemented,
}

// Status returns the HTTP status for c. Codes without an entry, including
// the empty code, map to 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a failure with a code, a message fit for users, and an optional
// cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix or the cause.
// Uncoded errors are returned whole.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// Details returns the text of the cause, reported by the HTTP service next
// to the user message. Without a cause it falls back to the whole error.
func Details(err error) string {
	if e, ok := find(err); ok && e.Cause != nil {
		return e.Cause.Error()
	}
	return err.Error()
}

// HTTPStatus returns the status the HTTP service answers err with.
func HTTPStatus(err error) int { return GetCode(err).Status() }

// IsClientError reports whether err was caused by bad input, i.e. maps to
// a 4xx status.
func IsClientError(err error) bool {
	return HTTPStatus(err)/100 == 4
}
