package billing

import (
	"errors"
	"fmt"

	"gokuldairy/repository"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed input. The caller can correct the
// request and retry.
type ValidationError struct {
	Reason string
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError wraps repository.ErrNotFound with what was looked up.
type NotFoundError struct {
	Kind string
	ID   interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return repository.ErrNotFound }

// DuplicateBillError marks an attempt to bill an already-billed period.
// Inside a batch it is counted and skipped; for a single-customer request it
// is returned to the caller.
type DuplicateBillError struct {
	CustomerID int64
	Period     Period
}

func (e *DuplicateBillError) Error() string {
	return fmt.Sprintf("bill already exists for customer %d period %s", e.CustomerID, e.Period)
}

func (e *DuplicateBillError) Unwrap() error { return repository.ErrDuplicateBill }

// IntegrityFault reports a non-zero reconciliation discrepancy. It must
// reach an operator; automated writes for the customer should stop until
// the stored balance is corrected.
type IntegrityFault struct {
	CustomerID      int64
	StoredBalance   decimal.Decimal
	ComputedBalance decimal.Decimal
}

func (e *IntegrityFault) Error() string {
	return fmt.Sprintf("balance integrity fault for customer %d: stored %s, computed from ledger %s",
		e.CustomerID, e.StoredBalance, e.ComputedBalance)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound matches both the typed error and the repository sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// IsDuplicateBill matches both the typed error and the repository sentinel.
func IsDuplicateBill(err error) bool {
	return errors.Is(err, repository.ErrDuplicateBill)
}
