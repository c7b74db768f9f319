// File: internal/services/ai/errors.go
package ai

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeValidation ErrorType = "VALIDATION"
)

// ServiceError describes a failed call to one of the inference services.
type ServiceError struct {
	Type      ErrorType
	Code      int
	Service   string
	Operation string
	Message   string
	Cause     error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s error in %s: %s (caused by: %v)",
			e.Service, e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s error in %s: %s", e.Service, e.Type, e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newNetworkError(service, operation string, cause error) *ServiceError {
	return &ServiceError{Type: ErrTypeNetwork, Service: service, Operation: operation,
		Message: "request failed", Cause: cause}
}

func newProviderError(service, operation string, code int, body string) *ServiceError {
	return &ServiceError{Type: ErrTypeProvider, Service: service, Operation: operation,
		Code: code, Message: body}
}
