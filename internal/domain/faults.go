package domain

import "fmt"

// FaultCategory classifies carrier and validation failures
type FaultCategory string

const (
	FaultInvalidAddress FaultCategory = "invalid_address"
	FaultWeightExceeded FaultCategory = "weight_exceeded"
	FaultServiceMissing FaultCategory = "service_missing"
	FaultGeneric        FaultCategory = "generic"
)

// ValidationError reports a shipment that fails local preconditions.
// No carrier call is made when one of these is returned.
type ValidationError struct {
	Category FaultCategory
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(category FaultCategory, message string) *ValidationError {
	return &ValidationError{Category: category, Message: message}
}

var (
	// ErrServiceTypeMissing is returned when a single-service operation has no service selected
	ErrServiceTypeMissing = &ValidationError{Category: FaultServiceMissing, Message: "carrier service type missing"}
	// ErrNoPackages is returned when a shipment carries no packages
	ErrNoPackages = &ValidationError{Category: FaultGeneric, Message: "shipment has no packages"}
	// ErrAlreadyLabeled is returned when a tracking number is already present
	ErrAlreadyLabeled = &ValidationError{Category: FaultGeneric, Message: "tracking number is already present for this shipment"}
	// ErrConfirmationSettled is returned when an accept or void is attempted on a consumed confirmation
	ErrConfirmationSettled = &ValidationError{Category: FaultGeneric, Message: "shipment confirmation already settled"}
)

// CarrierFault is an error the carrier reported in a well-formed response.
// Code is the severity-qualified carrier code ("Hard-111285"); Message is the
// carrier's description, carried verbatim.
type CarrierFault struct {
	Code     string
	Message  string
	Category FaultCategory
}

func (e *CarrierFault) Error() string {
	return fmt.Sprintf("%s:%s", e.Code, e.Message)
}

// IntegrityError reports a carrier response that is inconsistent with the
// request it answers, such as a package-result count mismatch.
type IntegrityError struct {
	Expected int
	Actual   int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("carrier returned %d package results for %d packages", e.Actual, e.Expected)
}

// TransportError wraps a failure to exchange documents with the carrier.
// The underlying cause is preserved for unwrapping.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("carrier transport failed during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
