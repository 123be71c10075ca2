package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillUnpaid  BillStatus = "unpaid"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentOnline       PaymentMethod = "online"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Payment is one entry in a bill's append-only payment ledger. Never mutated
// or deleted once recorded.
type Payment struct {
	ID            string          `json:"id" bson:"id" db:"id"`
	PaymentDate   time.Time       `json:"payment_date" bson:"payment_date" db:"payment_date"`
	Method        PaymentMethod   `json:"payment_method" bson:"payment_method" db:"payment_method"`
	Amount        decimal.Decimal `json:"amount" bson:"amount" db:"amount"`
	TransactionID *string         `json:"transaction_id,omitempty" bson:"transaction_id,omitempty" db:"transaction_id"`
	Notes         *string         `json:"notes,omitempty" bson:"notes,omitempty" db:"notes"`
	RecordedAt    time.Time       `json:"recorded_at" bson:"recorded_at" db:"recorded_at"`
}

// Bill is one monthly invoice for a customer. One bill per (customer, period).
type Bill struct {
	ID            int64  `json:"id" db:"id"`
	InvoiceNumber string `json:"invoice_number" db:"invoice_number"`
	CustomerID    int64  `json:"customer_id" db:"customer_id"`
	PeriodYear    int    `json:"period_year" db:"period_year"`
	PeriodMonth   int    `json:"period_month" db:"period_month"`

	// BillingType is copied from the customer's plan at generation time so
	// later plan changes don't rewrite billing history.
	BillingType   BillingType     `json:"billing_type" db:"billing_type"`
	TotalLiters   decimal.Decimal `json:"total_liters" db:"total_liters"`
	PricePerLiter decimal.Decimal `json:"price_per_liter" db:"price_per_liter"`
	MilkAmount    decimal.Decimal `json:"milk_amount" db:"milk_amount"`
	ExtrasAmount  decimal.Decimal `json:"extras_amount" db:"extras_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`

	DueDate   time.Time  `json:"due_date" db:"due_date"`
	Status    BillStatus `json:"status" db:"status"`
	Payments  []Payment  `json:"payments"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	// Nested object for responses (denormalized)
	Customer *CustomerAccount `json:"customer,omitempty"`
}

// PaidAmount sums the recorded payments.
func (b *Bill) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// IsSettled reports whether cumulative payments cover the bill total.
func (b *Bill) IsSettled() bool {
	return b.PaidAmount().GreaterThanOrEqual(b.TotalAmount)
}

// EffectiveStatus derives overdue for display: an unpaid bill past its due
// date surfaces as overdue even before the sweep has stored it.
func (b *Bill) EffectiveStatus(now time.Time) BillStatus {
	if b.Status == BillUnpaid && now.After(b.DueDate) {
		return BillOverdue
	}
	return b.Status
}
