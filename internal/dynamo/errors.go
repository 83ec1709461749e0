package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and evaluation operations.
var (
	// ErrDomain indicates invalid physical input: a non-positive arm length,
	// a non-finite time, position or velocity.
	ErrDomain = errors.New("dynamo: invalid physical input")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// DomainError reports which input was rejected and why.
type DomainError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// NewDomainError builds a DomainError for field.
func NewDomainError(field string, value float64, reason string) error {
	return &DomainError{Field: field, Value: value, Reason: reason}
}

// SimError reports a failure at a specific integration step.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
