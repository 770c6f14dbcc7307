package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the reconciliation taxonomy. The web adapter maps these
// to stable error codes; callers test with errors.Is.
var (
	// ErrMissingRequiredField: no route, reason too short, or neither a lens
	// order nor a payment (and no new-payment request) was supplied.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidAssociation: the referenced lens order or payment is not in an
	// eligible status for reconciliation.
	ErrInvalidAssociation = errors.New("invalid association")

	// ErrFolioMismatch: the supplied lens order and payment belong to
	// different sales.
	ErrFolioMismatch = errors.New("folio mismatch")
)

// ValidationError carries the offending field alongside one of the sentinel
// errors above, so the form layer can report it inline.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalidField(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
