package models

import (
	"errors"
	"fmt"
)

// Error codes produced by the chart core.
const (
	CodeInvalidTimeFormat      = "ERR_INVALID_TIME_FORMAT"
	CodeMissingTimeInput       = "ERR_MISSING_TIME_INPUT"
	CodeMissingTimezoneInput   = "ERR_MISSING_TIMEZONE_INPUT"
	CodeInvalidHouseSystem     = "ERR_INVALID_HOUSE_SYSTEM"
	CodeDegenerateCuspData     = "ERR_DEGENERATE_CUSP_DATA"
	CodeInvalidWheelConvention = "ERR_INVALID_WHEEL_CONVENTION"
	CodeEphemeris              = "ERR_EPHEMERIS"
	CodeValidation             = "ERR_VALIDATION"
)

// Sentinels for errors.Is matching. A *CoreError matches the sentinel with the same code.
var (
	ErrInvalidTimeFormat      = &CoreError{Code: CodeInvalidTimeFormat, Message: "invalid time format"}
	ErrMissingTimeInput       = &CoreError{Code: CodeMissingTimeInput, Message: "missing time input"}
	ErrMissingTimezoneInput   = &CoreError{Code: CodeMissingTimezoneInput, Message: "missing timezone input"}
	ErrInvalidHouseSystem     = &CoreError{Code: CodeInvalidHouseSystem, Message: "invalid house system"}
	ErrDegenerateCuspData     = &CoreError{Code: CodeDegenerateCuspData, Message: "degenerate cusp data"}
	ErrInvalidWheelConvention = &CoreError{Code: CodeInvalidWheelConvention, Message: "invalid wheel convention"}
	ErrEphemeris              = &CoreError{Code: CodeEphemeris, Message: "ephemeris failure"}
	ErrValidation             = &CoreError{Code: CodeValidation, Message: "validation failed"}
)

// CoreError is a recoverable, caller-facing error with a stable code.
type CoreError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	Err     error          `json:"-"`
}

func (e *CoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *CoreError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a CoreError with the same code.
func (e *CoreError) Is(target error) bool {
	var t *CoreError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewCoreError creates a new core error.
func NewCoreError(code, field, message string) *CoreError {
	return &CoreError{
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// WithParam sets a single error param.
func (e *CoreError) WithParam(key string, value any) *CoreError {
	if e.Params == nil {
		e.Params = make(map[string]any)
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *CoreError) WithError(err error) *CoreError {
	e.Err = err
	return e
}

// InvalidTimeFormatf creates an ERR_INVALID_TIME_FORMAT error for field.
func InvalidTimeFormatf(field, format string, a ...any) *CoreError {
	return NewCoreError(CodeInvalidTimeFormat, field, fmt.Sprintf(format, a...))
}

// CodeOf returns the code of the first CoreError in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
