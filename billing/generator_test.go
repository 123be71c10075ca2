package billing

import (
	"testing"
	"time"

	"gokuldairy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testGenerator() (*Generator, *memCustomerRepo, *memDeliveryRepo, *memBillRepo) {
	customers := newMemCustomerRepo()
	deliveries := newMemDeliveryRepo()
	bills := newMemBillRepo()
	g := NewGenerator(bills, customers, deliveries, 10, nil)
	g.now = func() time.Time { return testNow }
	return g, customers, deliveries, bills
}

func perLiterCustomer(customers *memCustomerRepo, price string) *models.CustomerAccount {
	c := &models.CustomerAccount{
		Name:   "Ramesh Patel",
		Active: true,
		Plan: models.BillingPlan{
			Type:          models.BillingPerLiter,
			PricePerLiter: dec(price),
		},
	}
	_ = customers.CreateCustomer(c)
	return c
}

func subscriptionCustomer(customers *memCustomerRepo, amount string) *models.CustomerAccount {
	c := &models.CustomerAccount{
		Name:   "Suresh Shah",
		Active: true,
		Plan: models.BillingPlan{
			Type:               models.BillingSubscription,
			SubscriptionAmount: dec(amount),
		},
	}
	_ = customers.CreateCustomer(c)
	return c
}

func addDelivery(deliveries *memDeliveryRepo, customerID int64, day int, liters string, extras ...models.AdditionalProduct) {
	status := models.DeliveryPresent
	if liters == "" {
		status = models.DeliveryAbsent
		liters = "0"
	}
	_ = deliveries.SaveDelivery(&models.DeliveryRecord{
		CustomerID:         customerID,
		Date:               time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Status:             status,
		Quantity:           dec(liters),
		UnitPrice:          dec("60"),
		AdditionalProducts: extras,
	})
}

func TestGeneratePerLiterBill(t *testing.T) {
	g, customers, deliveries, bills := testGenerator()
	c := perLiterCustomer(customers, "60")

	addDelivery(deliveries, c.ID, 5, "3")
	addDelivery(deliveries, c.ID, 6, "3.5")
	// Extras on an absent day still get billed.
	addDelivery(deliveries, c.ID, 7, "", models.AdditionalProduct{
		ProductType: "ghee", Quantity: dec("1"), UnitPrice: dec("50"), TotalAmount: dec("50"),
	})
	addDelivery(deliveries, c.ID, 8, "2.5")

	bill, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)

	assert.Equal(t, "INV-202601-00001", bill.InvoiceNumber)
	assert.Equal(t, models.BillingPerLiter, bill.BillingType)
	assert.True(t, bill.TotalLiters.Equal(dec("9")), "liters: %s", bill.TotalLiters)
	assert.True(t, bill.MilkAmount.Equal(dec("540")), "milk: %s", bill.MilkAmount)
	assert.True(t, bill.ExtrasAmount.Equal(dec("50")), "extras: %s", bill.ExtrasAmount)
	assert.True(t, bill.TotalAmount.Equal(dec("590")), "total: %s", bill.TotalAmount)
	assert.Equal(t, models.BillUnpaid, bill.Status)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), bill.DueDate)

	balance, err := bills.CustomerBalance(c.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("590")), "balance: %s", balance)
}

func TestGenerateSubscriptionBill(t *testing.T) {
	g, customers, deliveries, _ := testGenerator()
	c := subscriptionCustomer(customers, "1800")

	// Liters are informational on a subscription; the flat amount is charged.
	addDelivery(deliveries, c.ID, 3, "1")
	addDelivery(deliveries, c.ID, 4, "1", models.AdditionalProduct{
		ProductType: "paneer", Quantity: dec("0.5"), UnitPrice: dec("240"), TotalAmount: dec("120"),
	})

	bill, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)

	assert.True(t, bill.MilkAmount.Equal(dec("1800")), "milk: %s", bill.MilkAmount)
	assert.True(t, bill.ExtrasAmount.Equal(dec("120")), "extras: %s", bill.ExtrasAmount)
	assert.True(t, bill.TotalAmount.Equal(dec("1920")), "total: %s", bill.TotalAmount)
}

func TestGenerateOneIsIdempotent(t *testing.T) {
	g, customers, deliveries, bills := testGenerator()
	c := perLiterCustomer(customers, "60")
	addDelivery(deliveries, c.ID, 5, "3")

	_, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)

	_, err = g.GenerateOne(2026, 1, c.ID)
	require.Error(t, err)
	assert.True(t, IsDuplicateBill(err))

	all, err := bills.ListBillsByCustomer(c.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	balance, err := bills.CustomerBalance(c.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("180")), "duplicate attempt must not charge again: %s", balance)
}

func TestGenerateBatchSkipsAlreadyBilled(t *testing.T) {
	g, customers, deliveries, _ := testGenerator()
	c1 := perLiterCustomer(customers, "60")
	c2 := perLiterCustomer(customers, "55")
	c3 := perLiterCustomer(customers, "50")
	for _, c := range []*models.CustomerAccount{c1, c2, c3} {
		addDelivery(deliveries, c.ID, 10, "2")
	}

	// c2 was billed in an earlier, partially failed run.
	_, err := g.GenerateOne(2026, 1, c2.ID)
	require.NoError(t, err)

	summary, err := g.Generate(2026, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Generated)
	assert.Equal(t, 1, summary.Errors)
}

func TestGenerateBatchIgnoresCustomersWithoutPlan(t *testing.T) {
	g, customers, deliveries, _ := testGenerator()
	c := perLiterCustomer(customers, "60")
	addDelivery(deliveries, c.ID, 10, "2")

	noPlan := &models.CustomerAccount{Name: "Walk-in", Active: true}
	require.NoError(t, customers.CreateCustomer(noPlan))

	summary, err := g.Generate(2026, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 0, summary.Errors)
}

func TestGenerateOneRejectsMissingPlan(t *testing.T) {
	g, customers, _, _ := testGenerator()
	c := &models.CustomerAccount{Name: "Walk-in", Active: true}
	require.NoError(t, customers.CreateCustomer(c))

	_, err := g.GenerateOne(2026, 1, c.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestGenerateOneRejectsEmptyMonth(t *testing.T) {
	g, customers, _, _ := testGenerator()
	c := perLiterCustomer(customers, "60")

	_, err := g.GenerateOne(2026, 1, c.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err), "no deliveries and no extras means nothing to bill")
}

func TestGenerateRejectsFuturePeriod(t *testing.T) {
	g, customers, _, _ := testGenerator()
	c := perLiterCustomer(customers, "60")

	_, err := g.GenerateOne(2026, 5, c.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestGenerateOneUnknownCustomer(t *testing.T) {
	g, _, _, _ := testGenerator()

	_, err := g.GenerateOne(2026, 1, 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestInvoiceNumberFormat(t *testing.T) {
	p := Period{Year: 2026, Month: time.January}
	assert.Equal(t, "INV-202601-00042", InvoiceNumber(p, 42))
}
