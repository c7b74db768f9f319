// File: internal/services/errors.go
package services

import "fmt"

type ErrorType string

const (
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeNotFound         ErrorType = "NOT_FOUND"
	ErrTypeNoActiveDatabase ErrorType = "NO_ACTIVE_DATABASE"
	ErrTypeMissingSchema    ErrorType = "MISSING_SCHEMA"
	ErrTypeConnection       ErrorType = "CONNECTION"
	ErrTypeUpstream         ErrorType = "UPSTREAM_SERVICE"
	ErrTypeExecution        ErrorType = "EXECUTION"
)

// ServiceError is the error the orchestration layer hands to HTTP handlers.
// Type is machine-checkable; Reason carries a finer-grained code where one
// exists (connection failures).
type ServiceError struct {
	Type      ErrorType
	Operation string
	Message   string
	Reason    string
	Cause     error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewNoActiveDatabaseError(operation string) *ServiceError {
	return &ServiceError{Type: ErrTypeNoActiveDatabase, Operation: operation,
		Message: "No active database connected."}
}

func NewMissingSchemaError(operation string) *ServiceError {
	return &ServiceError{Type: ErrTypeMissingSchema, Operation: operation,
		Message: "Database schema is missing. Please reconnect the database."}
}

func NewUpstreamError(operation, msg string, cause error) *ServiceError {
	return &ServiceError{Type: ErrTypeUpstream, Operation: operation, Message: msg, Cause: cause}
}

func NewExecutionError(operation, msg string, cause error) *ServiceError {
	return &ServiceError{Type: ErrTypeExecution, Operation: operation, Message: msg, Cause: cause}
}
