package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// TranslationError reports a source query that cannot be turned into
// backend-native queries (empty input, malformed document object).
type TranslationError struct {
	Dialect string
	Message string
	Err     error
}

func (e *TranslationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func NewTranslation(dialect, msg string) *TranslationError {
	return &TranslationError{Dialect: dialect, Message: msg}
}

func NewTranslationWrap(dialect, msg string, err error) *TranslationError {
	return &TranslationError{Dialect: dialect, Message: msg, Err: err}
}

type UnsupportedDialectError struct {
	Dialect string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("query translation not supported for database: %s", e.Dialect)
}

type UnsupportedBackendError struct {
	Backend string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("Unsupported database: %s", e.Backend)
}

// ConnectorError wraps a driver failure with the backend that produced it.
type ConnectorError struct {
	Backend string
	Err     error
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Backend, e.Err)
}

func (e *ConnectorError) Unwrap() error {
	return e.Err
}

func NewConnector(backend string, err error) *ConnectorError {
	return &ConnectorError{Backend: backend, Err: err}
}

// AggregationError is returned when a parallel batch has no successful
// attempt to average over.
type AggregationError struct {
	Attempts int
	LastErr  string
}

func (e *AggregationError) Error() string {
	if e.LastErr != "" {
		return fmt.Sprintf("all %d attempts failed: %s", e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("all %d attempts failed", e.Attempts)
}

type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

func NewInvalidArgument(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}
