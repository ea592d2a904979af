package serrors

import "errors"

// BaseError is a coded error. Code is stable and machine-readable; Message is
// for operators. LocaleKey is optional and consumed by presentation layers.
type BaseError struct {
	Code      string
	Message   string
	LocaleKey string
}

func (e *BaseError) Error() string {
	return e.Message
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{Code: code, Message: message, LocaleKey: localeKey}
}

// Code extracts the error code from err, or "" when err carries none.
func Code(err error) string {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code string) bool {
	return Code(err) == code
}
