package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/parcelworks/shipping-gateway/internal/domain"
)

// AppError represents an application error with context
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithError wraps an underlying error
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrNotFound creates a not found error
func ErrNotFound(resource, id string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s with id '%s' not found", resource, id),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// ErrInternal creates an internal server error
func ErrInternal(message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ErrServiceUnavailable creates a service unavailable error
func ErrServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// ErrCarrierFault creates an upstream carrier error
func ErrCarrierFault(message string) *AppError {
	return &AppError{
		Code:       "CARRIER_FAULT",
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
	}
}

// AsAppError extracts an AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// FromDomain maps a domain error to an AppError
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return ErrValidation(validationErr.Message).WithDetails(map[string]any{
			"category": string(validationErr.Category),
		}).WithError(err)
	}

	var fault *domain.CarrierFault
	if errors.As(err, &fault) {
		return ErrCarrierFault(fault.Message).WithDetails(map[string]any{
			"carrierCode": fault.Code,
			"category":    string(fault.Category),
		}).WithError(err)
	}

	var integrityErr *domain.IntegrityError
	if errors.As(err, &integrityErr) {
		return &AppError{
			Code:       "CARRIER_INTEGRITY_ERROR",
			Message:    integrityErr.Error(),
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}

	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) {
		return ErrServiceUnavailable("carrier temporarily unreachable").WithError(err)
	}

	return ErrInternal("internal server error").WithError(err)
}
