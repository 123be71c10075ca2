package billing

import (
	"time"

	"gokuldairy/models"
	"gokuldairy/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentInput is a recorded (already approved, already dated) payment.
type PaymentInput struct {
	Amount        decimal.Decimal
	Method        models.PaymentMethod
	Date          time.Time
	TransactionID *string
	Notes         *string
}

// Processor applies payments to bills. Overpayment is allowed by design:
// the excess drives the customer's balance negative, which is the advance
// credit picked up by the next bill.
type Processor struct {
	bills repository.BillRepository
	now   func() time.Time
	log   *zap.Logger
}

func NewProcessor(bills repository.BillRepository, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{bills: bills, now: time.Now, log: log}
}

var validMethods = map[models.PaymentMethod]bool{
	models.PaymentCash:         true,
	models.PaymentOnline:       true,
	models.PaymentCheque:       true,
	models.PaymentBankTransfer: true,
}

// RecordPayment appends a payment to the bill's ledger and returns the
// updated bill. The append, the paid-status recompute, and the balance_due
// decrement happen in one atomic repository operation. There is no upper
// bound on the amount and no exact-amount rule.
func (p *Processor) RecordPayment(billID int64, in PaymentInput) (*models.Bill, error) {
	if in.Amount.Sign() <= 0 {
		return nil, NewValidationError("payment amount must be positive")
	}
	if in.Date.IsZero() {
		return nil, NewValidationError("payment date is required")
	}
	if !validMethods[in.Method] {
		return nil, NewValidationError("payment method must be cash, online, cheque or bank_transfer")
	}

	payment := &models.Payment{
		ID:            uuid.NewString(),
		PaymentDate:   in.Date,
		Method:        in.Method,
		Amount:        in.Amount,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
		RecordedAt:    p.now().UTC(),
	}

	bill, err := p.bills.AppendPayment(billID, payment)
	if err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Kind: "bill", ID: billID}
		}
		return nil, err
	}

	p.log.Info("payment recorded",
		zap.Int64("bill_id", billID),
		zap.String("payment_id", payment.ID),
		zap.String("amount", in.Amount.String()),
		zap.String("method", string(in.Method)),
		zap.String("status", string(bill.Status)))
	return bill, nil
}

// UpdateStatus forces a bill status, used by the overdue sweep. It never
// touches balance_due and never downgrades a paid bill.
func (p *Processor) UpdateStatus(billID int64, status models.BillStatus) error {
	switch status {
	case models.BillUnpaid, models.BillPaid, models.BillOverdue:
	default:
		return NewValidationError("status must be unpaid, paid or overdue")
	}

	bill, err := p.bills.GetBillByID(billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return &NotFoundError{Kind: "bill", ID: billID}
	}
	if bill.Status == models.BillPaid && status != models.BillPaid {
		return NewValidationError("bill %d is paid, status cannot be downgraded", billID)
	}
	return p.bills.UpdateStatus(billID, status)
}

// SweepOverdue marks every unpaid bill past its due date as overdue and
// returns how many were updated. Overdue bills keep accepting payments.
func (p *Processor) SweepOverdue() (int, error) {
	unpaid, err := p.bills.ListBills(repository.BillFilter{Status: models.BillUnpaid})
	if err != nil {
		return 0, err
	}

	now := p.now()
	swept := 0
	for _, bill := range unpaid {
		if !now.After(bill.DueDate) {
			continue
		}
		if err := p.bills.UpdateStatus(bill.ID, models.BillOverdue); err != nil {
			p.log.Warn("overdue sweep failed for bill",
				zap.Int64("bill_id", bill.ID), zap.Error(err))
			continue
		}
		swept++
	}

	if swept > 0 {
		p.log.Info("overdue sweep finished", zap.Int("swept", swept))
	}
	return swept, nil
}
