package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryStatus string

const (
	DeliveryPresent DeliveryStatus = "present"
	DeliveryAbsent  DeliveryStatus = "absent"
)

// AdditionalProduct is an ad-hoc item (ghee, paneer, curd...) delivered
// alongside the regular milk. Billed in full regardless of billing type.
type AdditionalProduct struct {
	ProductType string          `json:"product_type" bson:"product_type" db:"product_type"`
	Quantity    decimal.Decimal `json:"quantity" bson:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" bson:"unit_price" db:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount" bson:"total_amount" db:"total_amount"`
}

// DeliveryRecord is one attendance entry per customer per calendar day.
type DeliveryRecord struct {
	ID         int64          `json:"id" db:"id"`
	CustomerID int64          `json:"customer_id" db:"customer_id"`
	Date       time.Time      `json:"date" db:"date"`
	Status     DeliveryStatus `json:"status" db:"status"`

	// Quantity is liters of milk, meaningful only when Status is present.
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`

	AdditionalProducts []AdditionalProduct `json:"additional_products,omitempty"`
	CreatedAt          time.Time           `json:"created_at" db:"created_at"`
}

// AdditionalTotal sums the additional-product line totals for the day.
func (d *DeliveryRecord) AdditionalTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.AdditionalProducts {
		total = total.Add(p.TotalAmount)
	}
	return total
}
