package billing

import (
	"fmt"
	"time"

	"gokuldairy/models"
	"gokuldairy/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GenerateSummary is the batch result: the two counters always add up to the
// number of customers attempted.
type GenerateSummary struct {
	Generated int `json:"bills_generated"`
	Errors    int `json:"errors"`
}

// Generator turns a month of delivery records into one bill per customer.
type Generator struct {
	bills      repository.BillRepository
	customers  repository.CustomerRepository
	deliveries repository.DeliveryRepository
	dueDays    int
	now        func() time.Time
	log        *zap.Logger
}

func NewGenerator(
	bills repository.BillRepository,
	customers repository.CustomerRepository,
	deliveries repository.DeliveryRepository,
	dueDays int,
	log *zap.Logger,
) *Generator {
	if dueDays <= 0 {
		dueDays = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		bills:      bills,
		customers:  customers,
		deliveries: deliveries,
		dueDays:    dueDays,
		now:        time.Now,
		log:        log,
	}
}

// Generate bills the given month for the listed customers, or for every
// active customer with a billing plan when customerIDs is empty. Already
// billed customers are skipped and counted as errors, so re-running after a
// partial failure completes the batch without double billing anyone.
func (g *Generator) Generate(year, month int, customerIDs []int64) (GenerateSummary, error) {
	var summary GenerateSummary

	period, err := NewPeriod(year, month, g.now())
	if err != nil {
		return summary, err
	}

	targets, err := g.resolveTargets(customerIDs)
	if err != nil {
		return summary, err
	}

	for _, customer := range targets {
		if _, err := g.generateForCustomer(period, customer); err != nil {
			summary.Errors++
			g.log.Warn("bill generation skipped",
				zap.Int64("customer_id", customer.ID),
				zap.String("period", period.String()),
				zap.Error(err))
			continue
		}
		summary.Generated++
	}

	g.log.Info("bill generation finished",
		zap.String("period", period.String()),
		zap.Int("generated", summary.Generated),
		zap.Int("errors", summary.Errors))
	return summary, nil
}

// GenerateOne bills a single customer and surfaces every failure, including
// DuplicateBillError, to the caller.
func (g *Generator) GenerateOne(year, month int, customerID int64) (*models.Bill, error) {
	period, err := NewPeriod(year, month, g.now())
	if err != nil {
		return nil, err
	}

	customer, err := g.customers.GetCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &NotFoundError{Kind: "customer", ID: customerID}
	}
	return g.generateForCustomer(period, customer)
}

func (g *Generator) resolveTargets(customerIDs []int64) ([]*models.CustomerAccount, error) {
	if len(customerIDs) == 0 {
		all, err := g.customers.ListCustomers(true)
		if err != nil {
			return nil, err
		}
		targets := all[:0]
		for _, c := range all {
			if c.Plan.Type != "" {
				targets = append(targets, c)
			}
		}
		return targets, nil
	}

	targets := make([]*models.CustomerAccount, 0, len(customerIDs))
	for _, id := range customerIDs {
		c, err := g.customers.GetCustomer(id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, &NotFoundError{Kind: "customer", ID: id}
		}
		targets = append(targets, c)
	}
	return targets, nil
}

func (g *Generator) generateForCustomer(period Period, customer *models.CustomerAccount) (*models.Bill, error) {
	if existing, err := g.bills.GetBillByPeriod(customer.ID, period.Year, int(period.Month)); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &DuplicateBillError{CustomerID: customer.ID, Period: period}
	}

	if err := customer.Plan.Validate(); err != nil {
		return nil, NewValidationError("customer %d: %v", customer.ID, err)
	}

	records, err := g.deliveries.ListDeliveries(customer.ID, period.Start(), period.End())
	if err != nil {
		return nil, err
	}

	totalLiters := decimal.Zero
	extras := decimal.Zero
	for _, rec := range records {
		if rec.Status == models.DeliveryPresent {
			totalLiters = totalLiters.Add(rec.Quantity)
		}
		// Additional products count regardless of attendance.
		extras = extras.Add(rec.AdditionalTotal())
	}

	milkAmount, err := customer.Plan.MilkAmount(totalLiters)
	if err != nil {
		return nil, NewValidationError("customer %d: %v", customer.ID, err)
	}

	total := milkAmount.Add(extras)
	if total.Sign() <= 0 {
		return nil, NewValidationError("customer %d: nothing to bill for %s", customer.ID, period)
	}

	bill := &models.Bill{
		InvoiceNumber: InvoiceNumber(period, customer.ID),
		CustomerID:    customer.ID,
		PeriodYear:    period.Year,
		PeriodMonth:   int(period.Month),
		BillingType:   customer.Plan.Type,
		TotalLiters:   totalLiters,
		PricePerLiter: customer.Plan.PricePerLiter,
		MilkAmount:    milkAmount,
		ExtrasAmount:  extras,
		TotalAmount:   total,
		DueDate:       period.DueDate(g.dueDays),
		Status:        models.BillUnpaid,
		Payments:      []models.Payment{},
		CreatedAt:     g.now().UTC(),
	}

	// Bill insert and balance_due increment are one atomic unit inside the
	// repository; a unique-index collision on (customer, period) or on the
	// invoice number comes back as ErrDuplicateBill.
	if err := g.bills.CreateBillAndCharge(bill); err != nil {
		if IsDuplicateBill(err) {
			return nil, &DuplicateBillError{CustomerID: customer.ID, Period: period}
		}
		return nil, err
	}
	return bill, nil
}

// InvoiceNumber encodes period and customer, e.g. INV-202601-00042. One bill
// per customer-period makes this unique; the database index enforces it.
func InvoiceNumber(period Period, customerID int64) string {
	return fmt.Sprintf("INV-%04d%02d-%05d", period.Year, int(period.Month), customerID)
}
