package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type BillingType string

const (
	BillingSubscription BillingType = "subscription"
	BillingPerLiter     BillingType = "per_liter"
)

// BillingPlan is the pricing configuration of a customer. Exactly one of the
// two amounts is meaningful, selected by Type.
type BillingPlan struct {
	Type               BillingType     `json:"type" bson:"type" db:"billing_type"`
	SubscriptionAmount decimal.Decimal `json:"subscription_amount" bson:"subscription_amount" db:"subscription_amount"`
	PricePerLiter      decimal.Decimal `json:"price_per_liter" bson:"price_per_liter" db:"price_per_liter"`
}

// Validate checks that the plan carries a usable price for its type.
func (p BillingPlan) Validate() error {
	switch p.Type {
	case BillingSubscription:
		if p.SubscriptionAmount.Sign() <= 0 {
			return errors.New("subscription_amount must be positive for subscription billing")
		}
	case BillingPerLiter:
		if p.PricePerLiter.Sign() <= 0 {
			return errors.New("price_per_liter must be positive for per-liter billing")
		}
	default:
		return errors.New("billing type must be subscription or per_liter")
	}
	return nil
}

// MilkAmount computes the milk portion of a monthly bill. For subscription
// plans the liters are informational and the flat amount is charged.
func (p BillingPlan) MilkAmount(totalLiters decimal.Decimal) (decimal.Decimal, error) {
	switch p.Type {
	case BillingSubscription:
		return p.SubscriptionAmount, nil
	case BillingPerLiter:
		return totalLiters.Mul(p.PricePerLiter), nil
	default:
		return decimal.Zero, errors.New("billing type must be subscription or per_liter")
	}
}

type CustomerAccount struct {
	ID      int64       `json:"id" db:"id"`
	Name    string      `json:"name" db:"name"`
	Phone   string      `json:"phone" db:"phone"`
	Address string      `json:"address" db:"address"`
	Active  bool        `json:"active" db:"active"`
	Plan    BillingPlan `json:"plan"`

	// BalanceDue is the running total: positive means the customer owes
	// money, negative means advance credit. Mutated only through the
	// atomic bill/payment repository operations.
	BalanceDue decimal.Decimal `json:"balance_due" db:"balance_due"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
