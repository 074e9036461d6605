package converter

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeUnknownOperation      ErrorType = "unknown_operation"
	ErrorTypeNoFileUploaded        ErrorType = "no_file_uploaded"
	ErrorTypeInvalidParameters     ErrorType = "invalid_parameters"
	ErrorTypeConversionFailed      ErrorType = "conversion_failed"
	ErrorTypeUnsupportedConversion ErrorType = "unsupported_conversion"
)

// Error is the only error kind the dispatcher returns. Message is safe to show to clients.
type Error struct {
	Type    ErrorType
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

// ClientMessage is what the HTTP layer sends back as the response body.
func (e *Error) ClientMessage() string {
	if e.Type == ErrorTypeConversionFailed && e.Err != nil {
		return e.Error()
	}
	return e.Message
}

func newError(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

func UnknownOperation(id string) *Error {
	return newError(ErrorTypeUnknownOperation, "Invalid operation", fmt.Errorf("%q is not a known operation", id))
}

func NoFileUploaded() *Error {
	return newError(ErrorTypeNoFileUploaded, "No file uploaded.", nil)
}

func InvalidParameters(message string) *Error {
	return newError(ErrorTypeInvalidParameters, message, nil)
}

func ConversionFailed(err error) *Error {
	return newError(ErrorTypeConversionFailed, "Conversion failed", err)
}

func UnsupportedConversion(message string) *Error {
	return newError(ErrorTypeUnsupportedConversion, message, nil)
}

// IsType reports whether err is, or wraps, an *Error of type t.
func IsType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}
