package errors

import "fmt"

type ErrorType string

const (
	MalformedError ErrorType = "malformed"
	AuthError      ErrorType = "auth"
	ReplayError    ErrorType = "replay"
	ConfigError    ErrorType = "config"
	TransportError ErrorType = "transport"
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewMalformedError(message string, cause error) *AppError {
	return &AppError{Type: MalformedError, Message: message, Cause: cause}
}

func NewAuthError(message string, cause error) *AppError {
	return &AppError{Type: AuthError, Message: message, Cause: cause}
}

func NewReplayError(message string, cause error) *AppError {
	return &AppError{Type: ReplayError, Message: message, Cause: cause}
}

func NewConfigError(message string, cause error) *AppError {
	return &AppError{Type: ConfigError, Message: message, Cause: cause}
}

func NewTransportError(message string, cause error) *AppError {
	return &AppError{Type: TransportError, Message: message, Cause: cause}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == t
	}
	return false
}
