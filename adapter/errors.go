package adapter

import "fmt"

// ErrorCode classifies adapter failures: a module error means the caller
// or this module produced something invalid, a server error means the
// exchange (or the network) did.
type ErrorCode string

const (
	ErrCodeModule         ErrorCode = "module_error"
	ErrCodeExchangeServer ErrorCode = "exchange_server_error"
)

// Error is the failure type returned by every Exchange operation.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func moduleError(cause error, format string, args ...interface{}) *Error {
	return &Error{Code: ErrCodeModule, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func serverError(cause error, format string, args ...interface{}) *Error {
	return &Error{Code: ErrCodeExchangeServer, Message: fmt.Sprintf(format, args...), Cause: cause}
}
