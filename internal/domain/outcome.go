package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	CodeFileNotFound     ErrorCode = "FILE_NOT_FOUND"
	CodeImageLoadError   ErrorCode = "IMAGE_LOAD_ERROR"
	CodeRecognitionError ErrorCode = "RECOGNITION_ERROR"
	CodeRequestError     ErrorCode = "REQUEST_ERROR"
	CodeShareError       ErrorCode = "SHARE_ERROR"
)

// Error is the structured failure handed back to the UI layer.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a structured bridge error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
	OutcomeNotImplemented
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeNotImplemented:
		return "not_implemented"
	}
	return "unknown"
}

// Outcome is the single reply produced for one inbound call.
// Value is a string (recognizeText) or a bool (shareFile) on success.
type Outcome struct {
	Kind  OutcomeKind
	Value any
	Err   *Error
}

func Success(v any) Outcome { return Outcome{Kind: OutcomeSuccess, Value: v} }

func Failure(err *Error) Outcome { return Outcome{Kind: OutcomeFailure, Err: err} }

func Fail(code ErrorCode, format string, args ...any) Outcome {
	return Failure(NewError(code, format, args...))
}

func NotImplemented() Outcome { return Outcome{Kind: OutcomeNotImplemented} }

// Label is a low-cardinality description used for logs and metrics.
func (o Outcome) Label() string {
	if o.Kind == OutcomeFailure && o.Err != nil {
		return string(o.Err.Code)
	}
	return o.Kind.String()
}
