package billing

import (
	"errors"
	"testing"
	"time"

	"gokuldairy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReconciler() (*Reconciler, *Generator, *Processor, *memCustomerRepo, *memDeliveryRepo, *memBillRepo) {
	g, customers, deliveries, bills := testGenerator()
	p := NewProcessor(bills, nil)
	p.now = func() time.Time { return testNow }
	r := NewReconciler(bills, deliveries, nil)
	r.now = func() time.Time { return testNow }
	return r, g, p, customers, deliveries, bills
}

func TestReconcileCleanLedger(t *testing.T) {
	r, g, p, customers, deliveries, _ := testReconciler()
	c := perLiterCustomer(customers, "60")
	addDelivery(deliveries, c.ID, 5, "3")

	bill, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)
	_, err = p.RecordPayment(bill.ID, payment("100"))
	require.NoError(t, err)
	_, err = p.RecordPayment(bill.ID, payment("80"))
	require.NoError(t, err)

	report, err := r.Reconcile(c.ID)
	require.NoError(t, err)
	assert.True(t, report.Discrepancy.IsZero(), "discrepancy: %s", report.Discrepancy)
	assert.Equal(t, 1, report.BillCount)
	assert.Equal(t, 2, report.PaymentCount)
	assert.True(t, report.ComputedBalance.Equal(dec("0")), "computed: %s", report.ComputedBalance)
}

func TestReconcileDetectsTamperedBalance(t *testing.T) {
	r, g, _, customers, deliveries, bills := testReconciler()
	c := perLiterCustomer(customers, "60")
	addDelivery(deliveries, c.ID, 5, "3")

	_, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)

	// Simulate a write that bypassed the atomic bill/payment operations.
	bills.balances[c.ID] = dec("999")

	report, err := r.Reconcile(c.ID)
	require.Error(t, err)

	var fault *IntegrityFault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, c.ID, fault.CustomerID)
	assert.True(t, fault.StoredBalance.Equal(dec("999")))
	assert.True(t, fault.ComputedBalance.Equal(dec("180")))

	require.NotNil(t, report, "the report must accompany the fault")
	assert.True(t, report.Discrepancy.Equal(dec("819")), "discrepancy: %s", report.Discrepancy)
}

func TestStatementDayView(t *testing.T) {
	r, g, _, customers, deliveries, _ := testReconciler()
	c := perLiterCustomer(customers, "60")
	addDelivery(deliveries, c.ID, 5, "2")
	addDelivery(deliveries, c.ID, 6, "", models.AdditionalProduct{
		ProductType: "curd", Quantity: dec("1"), UnitPrice: dec("50"), TotalAmount: dec("50"),
	})

	_, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)

	st, err := r.Statement(c.ID, 2026, 1)
	require.NoError(t, err)

	assert.Len(t, st.Days, 31, "every calendar day of January appears")
	assert.Equal(t, "unrecorded", st.Days[0].Status)
	assert.Equal(t, "present", st.Days[4].Status)
	assert.True(t, st.Days[4].Liters.Equal(dec("2")))
	assert.True(t, st.Days[4].MilkAmount.Equal(dec("120")))
	assert.Equal(t, "absent", st.Days[5].Status)
	assert.True(t, st.Days[5].ExtrasAmount.Equal(dec("50")))

	assert.True(t, st.TotalLiters.Equal(dec("2")))
	assert.True(t, st.ComputedTotal.Equal(dec("170")), "computed: %s", st.ComputedTotal)
	assert.True(t, st.Billed)
	assert.True(t, st.BilledTotal.Equal(dec("170")))
	assert.False(t, st.Mismatch)
}

func TestStatementFlagsMismatchWithStoredBill(t *testing.T) {
	r, g, _, customers, deliveries, _ := testReconciler()
	c := perLiterCustomer(customers, "60")
	addDelivery(deliveries, c.ID, 5, "2")

	_, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)

	// A delivery edit that slipped past the billed-period guard.
	addDelivery(deliveries, c.ID, 9, "1")

	st, err := r.Statement(c.ID, 2026, 1)
	require.NoError(t, err)
	assert.True(t, st.Mismatch)
	assert.True(t, st.ComputedTotal.Equal(dec("180")))
	assert.True(t, st.BilledTotal.Equal(dec("120")))
}

func TestStatementSubscriptionUsesFlatAmount(t *testing.T) {
	r, g, _, customers, deliveries, _ := testReconciler()
	c := subscriptionCustomer(customers, "1800")
	addDelivery(deliveries, c.ID, 3, "1")
	addDelivery(deliveries, c.ID, 4, "1")

	_, err := g.GenerateOne(2026, 1, c.ID)
	require.NoError(t, err)

	st, err := r.Statement(c.ID, 2026, 1)
	require.NoError(t, err)
	assert.True(t, st.MilkAmount.Equal(dec("1800")), "flat amount replaces the per-day sum: %s", st.MilkAmount)
	assert.False(t, st.Mismatch)
}

func TestStatementUnbilledPeriod(t *testing.T) {
	r, _, _, customers, deliveries, _ := testReconciler()
	c := perLiterCustomer(customers, "60")
	addDelivery(deliveries, c.ID, 5, "2")

	st, err := r.Statement(c.ID, 2026, 1)
	require.NoError(t, err)
	assert.False(t, st.Billed)
	assert.False(t, st.Mismatch)
	assert.Empty(t, st.InvoiceNumber)
}
