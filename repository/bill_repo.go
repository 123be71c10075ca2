package repository

import (
	"gokuldairy/models"

	"github.com/shopspring/decimal"
)

// BillFilter narrows ListBills. Zero values mean "any".
type BillFilter struct {
	CustomerID  int64
	PeriodYear  int
	PeriodMonth int
	Status      models.BillStatus
}

// BillRepository persists bills and their embedded payment ledger.
//
// CreateBillAndCharge and AppendPayment are the only two writers of
// CustomerAccount.BalanceDue; each is a single atomic unit (mongo session
// transaction / sql transaction) so a bill is never created without its
// balance charge and a payment never lands without its balance credit.
type BillRepository interface {
	// CreateBillAndCharge inserts the bill and increases the customer's
	// balance_due by bill.TotalAmount. Returns ErrDuplicateBill if a bill
	// already exists for (customer, period) or the invoice number collides.
	CreateBillAndCharge(bill *models.Bill) error

	GetBillByID(id int64) (*models.Bill, error)
	GetBillByPeriod(customerID int64, year, month int) (*models.Bill, error)
	ListBills(filter BillFilter) ([]*models.Bill, error)
	ListBillsByCustomer(customerID int64) ([]*models.Bill, error)

	// AppendPayment appends the payment, sets the bill paid when the
	// cumulative amount covers the total, decreases the customer's
	// balance_due by the amount, and returns the updated bill.
	AppendPayment(billID int64, p *models.Payment) (*models.Bill, error)

	// UpdateStatus forces a bill status (overdue sweep). Does not touch
	// balances or payments.
	UpdateStatus(billID int64, status models.BillStatus) error

	// CustomerBalance reads the stored balance_due for reconciliation.
	CustomerBalance(customerID int64) (decimal.Decimal, error)
}
