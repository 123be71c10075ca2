package billing

import (
	"sort"
	"time"

	"gokuldairy/models"
	"gokuldairy/repository"

	"github.com/shopspring/decimal"
)

// In-memory repositories mirroring the database implementations' semantics,
// including the atomic bill+charge and payment+credit behavior.

type memCustomerRepo struct {
	customers map[int64]*models.CustomerAccount
	nextID    int64
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: map[int64]*models.CustomerAccount{}}
}

func (r *memCustomerRepo) CreateCustomer(c *models.CustomerAccount) error {
	r.nextID++
	c.ID = r.nextID
	r.customers[c.ID] = c
	return nil
}

func (r *memCustomerRepo) GetCustomer(id int64) (*models.CustomerAccount, error) {
	return r.customers[id], nil
}

func (r *memCustomerRepo) ListCustomers(activeOnly bool) ([]*models.CustomerAccount, error) {
	out := make([]*models.CustomerAccount, 0, len(r.customers))
	for _, c := range r.customers {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCustomerRepo) UpdateCustomer(c *models.CustomerAccount) error {
	r.customers[c.ID] = c
	return nil
}

type memDeliveryRepo struct {
	records []*models.DeliveryRecord
	nextID  int64
}

func newMemDeliveryRepo() *memDeliveryRepo { return &memDeliveryRepo{} }

func (r *memDeliveryRepo) SaveDelivery(d *models.DeliveryRecord) error {
	for i, rec := range r.records {
		if rec.CustomerID == d.CustomerID && rec.Date.Equal(d.Date) {
			d.ID = rec.ID
			r.records[i] = d
			return nil
		}
	}
	r.nextID++
	d.ID = r.nextID
	r.records = append(r.records, d)
	return nil
}

func (r *memDeliveryRepo) ListDeliveries(customerID int64, from, to time.Time) ([]*models.DeliveryRecord, error) {
	var out []*models.DeliveryRecord
	for _, rec := range r.records {
		if rec.CustomerID != customerID {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type memBillRepo struct {
	bills    map[int64]*models.Bill
	balances map[int64]decimal.Decimal
	nextID   int64
}

func newMemBillRepo() *memBillRepo {
	return &memBillRepo{
		bills:    map[int64]*models.Bill{},
		balances: map[int64]decimal.Decimal{},
	}
}

func (r *memBillRepo) CreateBillAndCharge(bill *models.Bill) error {
	for _, b := range r.bills {
		if b.CustomerID == bill.CustomerID && b.PeriodYear == bill.PeriodYear && b.PeriodMonth == bill.PeriodMonth {
			return repository.ErrDuplicateBill
		}
		if b.InvoiceNumber == bill.InvoiceNumber {
			return repository.ErrDuplicateBill
		}
	}
	r.nextID++
	bill.ID = r.nextID
	r.bills[bill.ID] = bill
	r.balances[bill.CustomerID] = r.balances[bill.CustomerID].Add(bill.TotalAmount)
	return nil
}

func (r *memBillRepo) GetBillByID(id int64) (*models.Bill, error) {
	return r.bills[id], nil
}

func (r *memBillRepo) GetBillByPeriod(customerID int64, year, month int) (*models.Bill, error) {
	for _, b := range r.bills {
		if b.CustomerID == customerID && b.PeriodYear == year && b.PeriodMonth == month {
			return b, nil
		}
	}
	return nil, nil
}

func (r *memBillRepo) ListBills(filter repository.BillFilter) ([]*models.Bill, error) {
	var out []*models.Bill
	for _, b := range r.bills {
		if filter.CustomerID != 0 && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.PeriodYear != 0 && b.PeriodYear != filter.PeriodYear {
			continue
		}
		if filter.PeriodMonth != 0 && b.PeriodMonth != filter.PeriodMonth {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBillRepo) ListBillsByCustomer(customerID int64) ([]*models.Bill, error) {
	return r.ListBills(repository.BillFilter{CustomerID: customerID})
}

func (r *memBillRepo) AppendPayment(billID int64, p *models.Payment) (*models.Bill, error) {
	bill, ok := r.bills[billID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	bill.Payments = append(bill.Payments, *p)
	if bill.IsSettled() {
		bill.Status = models.BillPaid
	}
	r.balances[bill.CustomerID] = r.balances[bill.CustomerID].Sub(p.Amount)
	return bill, nil
}

func (r *memBillRepo) UpdateStatus(billID int64, status models.BillStatus) error {
	bill, ok := r.bills[billID]
	if !ok {
		return repository.ErrNotFound
	}
	bill.Status = status
	return nil
}

func (r *memBillRepo) CustomerBalance(customerID int64) (decimal.Decimal, error) {
	return r.balances[customerID], nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
