package repository

import "errors"

// Sentinel errors shared by the mongo and postgres implementations. Driver
// specific failures (mongo duplicate key, postgres 23505) are translated to
// these before leaving the repository layer.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateBill = errors.New("bill already exists for this customer and period")
	ErrPeriodBilled  = errors.New("period already billed, delivery records are closed")
)
