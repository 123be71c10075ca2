package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBillSettlement(t *testing.T) {
	bill := &Bill{TotalAmount: d("590")}
	assert.False(t, bill.IsSettled())

	bill.Payments = append(bill.Payments, Payment{Amount: d("200")})
	assert.False(t, bill.IsSettled())
	assert.True(t, bill.PaidAmount().Equal(d("200")))

	bill.Payments = append(bill.Payments, Payment{Amount: d("400")})
	assert.True(t, bill.IsSettled(), "overpayment still settles")
	assert.True(t, bill.PaidAmount().Equal(d("600")))
}

func TestBillEffectiveStatus(t *testing.T) {
	due := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	bill := &Bill{Status: BillUnpaid, DueDate: due}

	before := due.AddDate(0, 0, -1)
	after := due.AddDate(0, 0, 1)

	assert.Equal(t, BillUnpaid, bill.EffectiveStatus(before))
	assert.Equal(t, BillOverdue, bill.EffectiveStatus(after))

	bill.Status = BillPaid
	assert.Equal(t, BillPaid, bill.EffectiveStatus(after), "paid bills never surface as overdue")
}

func TestBillingPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    BillingPlan
		wantErr bool
	}{
		{"subscription ok", BillingPlan{Type: BillingSubscription, SubscriptionAmount: d("1800")}, false},
		{"per-liter ok", BillingPlan{Type: BillingPerLiter, PricePerLiter: d("60")}, false},
		{"subscription without amount", BillingPlan{Type: BillingSubscription}, true},
		{"per-liter without price", BillingPlan{Type: BillingPerLiter}, true},
		{"no type", BillingPlan{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBillingPlanMilkAmount(t *testing.T) {
	sub := BillingPlan{Type: BillingSubscription, SubscriptionAmount: d("1800")}
	got, err := sub.MilkAmount(d("42"))
	assert.NoError(t, err)
	assert.True(t, got.Equal(d("1800")), "liters don't change a subscription charge")

	perLiter := BillingPlan{Type: BillingPerLiter, PricePerLiter: d("60")}
	got, err = perLiter.MilkAmount(d("9.5"))
	assert.NoError(t, err)
	assert.True(t, got.Equal(d("570")))

	_, err = BillingPlan{}.MilkAmount(d("1"))
	assert.Error(t, err)
}
