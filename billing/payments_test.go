package billing

import (
	"testing"
	"time"

	"gokuldairy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProcessor() (*Processor, *memBillRepo) {
	bills := newMemBillRepo()
	p := NewProcessor(bills, nil)
	p.now = func() time.Time { return testNow }
	return p, bills
}

func seedBill(t *testing.T, bills *memBillRepo, customerID int64, total string, dueDate time.Time) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		InvoiceNumber: InvoiceNumber(Period{Year: 2026, Month: time.January}, customerID),
		CustomerID:    customerID,
		PeriodYear:    2026,
		PeriodMonth:   1,
		BillingType:   models.BillingPerLiter,
		TotalAmount:   dec(total),
		DueDate:       dueDate,
		Status:        models.BillUnpaid,
	}
	require.NoError(t, bills.CreateBillAndCharge(bill))
	return bill
}

func payment(amount string) PaymentInput {
	return PaymentInput{
		Amount: dec(amount),
		Method: models.PaymentCash,
		Date:   time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecordPaymentPartialThenSettled(t *testing.T) {
	p, bills := testProcessor()
	bill := seedBill(t, bills, 1, "590", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	updated, err := p.RecordPayment(bill.ID, payment("200"))
	require.NoError(t, err)
	assert.Equal(t, models.BillUnpaid, updated.Status, "partial payment must not settle the bill")

	balance, err := bills.CustomerBalance(1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("390")), "balance: %s", balance)

	updated, err = p.RecordPayment(bill.ID, payment("390"))
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, updated.Status)
	assert.Len(t, updated.Payments, 2)

	balance, err = bills.CustomerBalance(1)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "balance: %s", balance)
}

func TestRecordPaymentOverpaymentBecomesCredit(t *testing.T) {
	p, bills := testProcessor()
	bill := seedBill(t, bills, 1, "590", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	updated, err := p.RecordPayment(bill.ID, payment("700"))
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, updated.Status)

	balance, err := bills.CustomerBalance(1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("-110")), "excess must drive the balance negative: %s", balance)
}

func TestRecordPaymentValidation(t *testing.T) {
	p, bills := testProcessor()
	bill := seedBill(t, bills, 1, "590", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		in   PaymentInput
	}{
		{"zero amount", PaymentInput{Amount: dec("0"), Method: models.PaymentCash, Date: testNow}},
		{"negative amount", PaymentInput{Amount: dec("-50"), Method: models.PaymentCash, Date: testNow}},
		{"missing date", PaymentInput{Amount: dec("100"), Method: models.PaymentCash}},
		{"unknown method", PaymentInput{Amount: dec("100"), Method: "barter", Date: testNow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.RecordPayment(bill.ID, tt.in)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}

	got, err := bills.GetBillByID(bill.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Payments, "rejected payments must not reach the ledger")
}

func TestRecordPaymentBillNotFound(t *testing.T) {
	p, _ := testProcessor()

	_, err := p.RecordPayment(404, payment("100"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpdateStatusNeverDowngradesPaid(t *testing.T) {
	p, bills := testProcessor()
	bill := seedBill(t, bills, 1, "590", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	_, err := p.RecordPayment(bill.ID, payment("590"))
	require.NoError(t, err)

	err = p.UpdateStatus(bill.ID, models.BillOverdue)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	got, err := bills.GetBillByID(bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, got.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	p, bills := testProcessor()
	bill := seedBill(t, bills, 1, "590", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	err := p.UpdateStatus(bill.ID, "cancelled")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSweepOverdue(t *testing.T) {
	p, bills := testProcessor()
	pastDue := seedBill(t, bills, 1, "590", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	notDue := seedBill(t, bills, 2, "400", time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC))
	settled := seedBill(t, bills, 3, "300", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	_, err := p.RecordPayment(settled.ID, payment("300"))
	require.NoError(t, err)

	swept, err := p.SweepOverdue()
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	got, _ := bills.GetBillByID(pastDue.ID)
	assert.Equal(t, models.BillOverdue, got.Status)
	got, _ = bills.GetBillByID(notDue.ID)
	assert.Equal(t, models.BillUnpaid, got.Status)
	got, _ = bills.GetBillByID(settled.ID)
	assert.Equal(t, models.BillPaid, got.Status)
}

func TestOverdueBillStillAcceptsPayment(t *testing.T) {
	p, bills := testProcessor()
	bill := seedBill(t, bills, 1, "590", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	_, err := p.SweepOverdue()
	require.NoError(t, err)

	updated, err := p.RecordPayment(bill.ID, payment("590"))
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, updated.Status)
}
