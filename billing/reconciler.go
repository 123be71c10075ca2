package billing

import (
	"time"

	"gokuldairy/models"
	"gokuldairy/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconcileReport compares the stored running balance against the balance
// recomputed from the append-only bill/payment history.
type ReconcileReport struct {
	CustomerID      int64           `json:"customer_id"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
	BillCount       int             `json:"bill_count"`
	PaymentCount    int             `json:"payment_count"`
}

// StatementDay is one calendar day of the billing-transparency view. Days
// with no delivery record appear with the unrecorded status.
type StatementDay struct {
	Date         string                     `json:"date"`
	Status       string                     `json:"status"`
	Liters       decimal.Decimal            `json:"liters"`
	MilkAmount   decimal.Decimal            `json:"milk_amount"`
	ExtrasAmount decimal.Decimal            `json:"extras_amount"`
	Products     []models.AdditionalProduct `json:"products,omitempty"`
}

// Statement is the day-level reconciliation view for one billing period.
// It is read-only: a mismatch between the recomputed and stored totals is
// reported, never written back to the bill.
type Statement struct {
	CustomerID    int64           `json:"customer_id"`
	Period        string          `json:"period"`
	Days          []StatementDay  `json:"days"`
	TotalLiters   decimal.Decimal `json:"total_liters"`
	MilkAmount    decimal.Decimal `json:"milk_amount"`
	ExtrasAmount  decimal.Decimal `json:"extras_amount"`
	ComputedTotal decimal.Decimal `json:"computed_total"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	BilledTotal   decimal.Decimal `json:"billed_total"`
	Billed        bool            `json:"billed"`
	Mismatch      bool            `json:"mismatch"`
}

// Reconciler verifies the invariant tying bills, payments and the stored
// balance together. Read-only: it never corrects anything it finds.
type Reconciler struct {
	bills      repository.BillRepository
	deliveries repository.DeliveryRepository
	now        func() time.Time
	log        *zap.Logger
}

func NewReconciler(bills repository.BillRepository, deliveries repository.DeliveryRepository, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{bills: bills, deliveries: deliveries, now: time.Now, log: log}
}

// Reconcile recomputes the customer balance from the ledger. A non-zero
// discrepancy is a data-integrity fault, returned as *IntegrityFault along
// with the populated report; it must reach an operator, not be retried.
func (r *Reconciler) Reconcile(customerID int64) (*ReconcileReport, error) {
	bills, err := r.bills.ListBillsByCustomer(customerID)
	if err != nil {
		return nil, err
	}

	stored, err := r.bills.CustomerBalance(customerID)
	if err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Kind: "customer", ID: customerID}
		}
		return nil, err
	}

	computed := decimal.Zero
	payments := 0
	for _, bill := range bills {
		computed = computed.Add(bill.TotalAmount)
		for _, p := range bill.Payments {
			computed = computed.Sub(p.Amount)
			payments++
		}
	}

	report := &ReconcileReport{
		CustomerID:      customerID,
		ComputedBalance: computed,
		StoredBalance:   stored,
		Discrepancy:     stored.Sub(computed),
		BillCount:       len(bills),
		PaymentCount:    payments,
	}

	if !report.Discrepancy.IsZero() {
		fault := &IntegrityFault{
			CustomerID:      customerID,
			StoredBalance:   stored,
			ComputedBalance: computed,
		}
		r.log.Error("balance integrity fault",
			zap.Int64("customer_id", customerID),
			zap.String("stored", stored.String()),
			zap.String("computed", computed.String()))
		return report, fault
	}
	return report, nil
}

// Statement builds the per-day view for a billing period, pairing every
// calendar day against its delivery record and recomputing the month's
// totals independently of the stored bill.
func (r *Reconciler) Statement(customerID int64, year, month int) (*Statement, error) {
	period, err := NewPeriod(year, month, r.now())
	if err != nil {
		return nil, err
	}

	records, err := r.deliveries.ListDeliveries(customerID, period.Start(), period.End())
	if err != nil {
		return nil, err
	}

	byDay := make(map[int]*models.DeliveryRecord, len(records))
	for _, rec := range records {
		byDay[rec.Date.Day()] = rec
	}

	bill, err := r.bills.GetBillByPeriod(customerID, period.Year, int(period.Month))
	if err != nil {
		return nil, err
	}

	st := &Statement{
		CustomerID:   customerID,
		Period:       period.String(),
		TotalLiters:  decimal.Zero,
		MilkAmount:   decimal.Zero,
		ExtrasAmount: decimal.Zero,
		BilledTotal:  decimal.Zero,
	}

	lastDay := period.End().Day()
	for day := 1; day <= lastDay; day++ {
		row := StatementDay{
			Date:         time.Date(period.Year, period.Month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Status:       "unrecorded",
			Liters:       decimal.Zero,
			MilkAmount:   decimal.Zero,
			ExtrasAmount: decimal.Zero,
		}
		if rec, ok := byDay[day]; ok {
			row.Status = string(rec.Status)
			row.ExtrasAmount = rec.AdditionalTotal()
			row.Products = rec.AdditionalProducts
			if rec.Status == models.DeliveryPresent {
				row.Liters = rec.Quantity
				row.MilkAmount = rec.Quantity.Mul(rec.UnitPrice)
				st.TotalLiters = st.TotalLiters.Add(rec.Quantity)
			}
			st.ExtrasAmount = st.ExtrasAmount.Add(row.ExtrasAmount)
			st.MilkAmount = st.MilkAmount.Add(row.MilkAmount)
		}
		st.Days = append(st.Days, row)
	}

	if bill != nil {
		st.Billed = true
		st.InvoiceNumber = bill.InvoiceNumber
		st.BilledTotal = bill.TotalAmount
		// Subscription bills charge the flat amount, not the per-day sum.
		if bill.BillingType == models.BillingSubscription {
			st.MilkAmount = bill.MilkAmount
		}
	}
	st.ComputedTotal = st.MilkAmount.Add(st.ExtrasAmount)

	if st.Billed && !st.ComputedTotal.Equal(st.BilledTotal) {
		st.Mismatch = true
		r.log.Warn("statement does not match stored bill total",
			zap.Int64("customer_id", customerID),
			zap.String("period", st.Period),
			zap.String("computed", st.ComputedTotal.String()),
			zap.String("billed", st.BilledTotal.String()))
	}
	return st, nil
}
