package errors

import "fmt"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AppError classifies failures for logging, user messaging and Sentry routing.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewValidationError covers malformed user input; recoverable by re-prompting.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: "Kiritilgan ma'lumot noto'g'ri. Qaytadan urinib ko'ring.",
		Severity:    SeverityLow,
		Retryable:   true,
	}
}

// NewDatabaseError covers storage failures; logged and swallowed at the
// outermost handler to keep the dispatcher alive.
func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("Database error: %s", underlyingMsg),
		UserMessage: "Vaqtinchalik muammo, keyinroq urinib ko'ring.",
		Severity:    SeverityHigh,
		cause:       cause,
	}
}

// NewTransportError covers Telegram delivery failures; never fatal.
func NewTransportError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("Transport error: %s", underlyingMsg),
		UserMessage: "Xabar yetkazib bo'lmadi. Keyinroq urinib ko'ring.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}
