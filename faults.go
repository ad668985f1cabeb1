package outcome

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrInvalidContract is returned by Register when an operation's declared
	// contracts break a static invariant. It is a startup configuration error.
	ErrInvalidContract = errors.New("invalid outcome contract")

	// ErrUnknownOutcome means a handler produced a tag its operation never declared.
	ErrUnknownOutcome = errors.New("unknown outcome")

	// ErrMissingRequiredHeader means a handler omitted a header its contract requires.
	ErrMissingRequiredHeader = errors.New("missing required header")

	// ErrSerialization means the response body could not be serialized.
	ErrSerialization = errors.New("response serialization failed")
)

// ContractError describes an operation that failed registration.
type ContractError struct {
	Operation string
	Tag       Tag
	Reason    string
}

func (e *ContractError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%v: operation %q: %s", ErrInvalidContract, e.Operation, e.Reason)
	}
	return fmt.Sprintf("%v: operation %q, outcome %q: %s", ErrInvalidContract, e.Operation, e.Tag, e.Reason)
}

func (e *ContractError) Unwrap() error { return ErrInvalidContract }

func invalidContract(op string, tag Tag, reason string) error {
	return &ContractError{Operation: op, Tag: tag, Reason: reason}
}

// UnknownOutcomeError is the fault raised when no contract matches a tag.
type UnknownOutcomeError struct {
	Operation string
	Tag       Tag
}

func (e *UnknownOutcomeError) Error() string {
	return fmt.Sprintf("%v: operation %q has no contract for outcome %q", ErrUnknownOutcome, e.Operation, e.Tag)
}

func (e *UnknownOutcomeError) Unwrap() error { return ErrUnknownOutcome }

// MissingRequiredHeaderError is the fault raised when a required header has no value.
type MissingRequiredHeaderError struct {
	Header    string
	Operation string
	Tag       Tag
}

func (e *MissingRequiredHeaderError) Error() string {
	return fmt.Sprintf("%v: %q for operation %q, outcome %q", ErrMissingRequiredHeader, e.Header, e.Operation, e.Tag)
}

func (e *MissingRequiredHeaderError) Unwrap() error { return ErrMissingRequiredHeader }

// SerializationError wraps a serializer failure.
type SerializationError struct {
	Operation string
	Tag       Tag
	Err       error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%v: operation %q, outcome %q: %v", ErrSerialization, e.Operation, e.Tag, e.Err)
}

func (e *SerializationError) Unwrap() []error { return []error{ErrSerialization, e.Err} }

// IsFault reports whether err is a handler/contract defect raised by the
// dispatcher, as opposed to an outcome the handler chose to return.
func IsFault(err error) bool {
	return errors.Is(err, ErrUnknownOutcome) ||
		errors.Is(err, ErrMissingRequiredHeader) ||
		errors.Is(err, ErrSerialization)
}

// faultKind names the fault class for logs and span attributes.
func faultKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownOutcome):
		return "unknown_outcome"
	case errors.Is(err, ErrMissingRequiredHeader):
		return "missing_required_header"
	case errors.Is(err, ErrSerialization):
		return "serialization"
	default:
		return "unknown"
	}
}
