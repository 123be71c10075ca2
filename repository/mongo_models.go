package repository

import (
	"context"
	"time"

	"gokuldairy/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoDBName = "gokuldairy"

// Money and liter fields are stored as Decimal128 so mongo $inc can mutate
// balance_due atomically without float drift.

func toDec128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDec128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

type customerDoc struct {
	ID                 int64                `bson:"_id"`
	Name               string               `bson:"name"`
	Phone              string               `bson:"phone"`
	Address            string               `bson:"address"`
	Active             bool                 `bson:"active"`
	BillingType        string               `bson:"billing_type"`
	SubscriptionAmount primitive.Decimal128 `bson:"subscription_amount"`
	PricePerLiter      primitive.Decimal128 `bson:"price_per_liter"`
	BalanceDue         primitive.Decimal128 `bson:"balance_due"`
	CreatedAt          time.Time            `bson:"created_at"`
	UpdatedAt          *time.Time           `bson:"updated_at,omitempty"`
}

func newCustomerDoc(c *models.CustomerAccount) customerDoc {
	return customerDoc{
		ID:                 c.ID,
		Name:               c.Name,
		Phone:              c.Phone,
		Address:            c.Address,
		Active:             c.Active,
		BillingType:        string(c.Plan.Type),
		SubscriptionAmount: toDec128(c.Plan.SubscriptionAmount),
		PricePerLiter:      toDec128(c.Plan.PricePerLiter),
		BalanceDue:         toDec128(c.BalanceDue),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (d customerDoc) toModel() *models.CustomerAccount {
	return &models.CustomerAccount{
		ID:      d.ID,
		Name:    d.Name,
		Phone:   d.Phone,
		Address: d.Address,
		Active:  d.Active,
		Plan: models.BillingPlan{
			Type:               models.BillingType(d.BillingType),
			SubscriptionAmount: fromDec128(d.SubscriptionAmount),
			PricePerLiter:      fromDec128(d.PricePerLiter),
		},
		BalanceDue: fromDec128(d.BalanceDue),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type productDoc struct {
	ProductType string               `bson:"product_type"`
	Quantity    primitive.Decimal128 `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
	TotalAmount primitive.Decimal128 `bson:"total_amount"`
}

type deliveryDoc struct {
	ID         int64                `bson:"_id"`
	CustomerID int64                `bson:"customer_id"`
	Date       time.Time            `bson:"date"`
	Status     string               `bson:"status"`
	Quantity   primitive.Decimal128 `bson:"quantity"`
	UnitPrice  primitive.Decimal128 `bson:"unit_price"`
	Products   []productDoc         `bson:"additional_products"`
	CreatedAt  time.Time            `bson:"created_at"`
}

func newDeliveryDoc(d *models.DeliveryRecord) deliveryDoc {
	doc := deliveryDoc{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Date:       d.Date,
		Status:     string(d.Status),
		Quantity:   toDec128(d.Quantity),
		UnitPrice:  toDec128(d.UnitPrice),
		CreatedAt:  d.CreatedAt,
		Products:   make([]productDoc, 0, len(d.AdditionalProducts)),
	}
	for _, p := range d.AdditionalProducts {
		doc.Products = append(doc.Products, productDoc{
			ProductType: p.ProductType,
			Quantity:    toDec128(p.Quantity),
			UnitPrice:   toDec128(p.UnitPrice),
			TotalAmount: toDec128(p.TotalAmount),
		})
	}
	return doc
}

func (d deliveryDoc) toModel() *models.DeliveryRecord {
	rec := &models.DeliveryRecord{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Date:       d.Date,
		Status:     models.DeliveryStatus(d.Status),
		Quantity:   fromDec128(d.Quantity),
		UnitPrice:  fromDec128(d.UnitPrice),
		CreatedAt:  d.CreatedAt,
	}
	for _, p := range d.Products {
		rec.AdditionalProducts = append(rec.AdditionalProducts, models.AdditionalProduct{
			ProductType: p.ProductType,
			Quantity:    fromDec128(p.Quantity),
			UnitPrice:   fromDec128(p.UnitPrice),
			TotalAmount: fromDec128(p.TotalAmount),
		})
	}
	return rec
}

type paymentDoc struct {
	ID            string               `bson:"id"`
	PaymentDate   time.Time            `bson:"payment_date"`
	Method        string               `bson:"payment_method"`
	Amount        primitive.Decimal128 `bson:"amount"`
	TransactionID *string              `bson:"transaction_id,omitempty"`
	Notes         *string              `bson:"notes,omitempty"`
	RecordedAt    time.Time            `bson:"recorded_at"`
}

func newPaymentDoc(p *models.Payment) paymentDoc {
	return paymentDoc{
		ID:            p.ID,
		PaymentDate:   p.PaymentDate,
		Method:        string(p.Method),
		Amount:        toDec128(p.Amount),
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		RecordedAt:    p.RecordedAt,
	}
}

func (d paymentDoc) toModel() models.Payment {
	return models.Payment{
		ID:            d.ID,
		PaymentDate:   d.PaymentDate,
		Method:        models.PaymentMethod(d.Method),
		Amount:        fromDec128(d.Amount),
		TransactionID: d.TransactionID,
		Notes:         d.Notes,
		RecordedAt:    d.RecordedAt,
	}
}

type billDoc struct {
	ID            int64                `bson:"_id"`
	InvoiceNumber string               `bson:"invoice_number"`
	CustomerID    int64                `bson:"customer_id"`
	PeriodYear    int                  `bson:"period_year"`
	PeriodMonth   int                  `bson:"period_month"`
	BillingType   string               `bson:"billing_type"`
	TotalLiters   primitive.Decimal128 `bson:"total_liters"`
	PricePerLiter primitive.Decimal128 `bson:"price_per_liter"`
	MilkAmount    primitive.Decimal128 `bson:"milk_amount"`
	ExtrasAmount  primitive.Decimal128 `bson:"extras_amount"`
	TotalAmount   primitive.Decimal128 `bson:"total_amount"`
	DueDate       time.Time            `bson:"due_date"`
	Status        string               `bson:"status"`
	Payments      []paymentDoc         `bson:"payments"`
	CreatedAt     time.Time            `bson:"created_at"`
}

func newBillDoc(b *models.Bill) billDoc {
	doc := billDoc{
		ID:            b.ID,
		InvoiceNumber: b.InvoiceNumber,
		CustomerID:    b.CustomerID,
		PeriodYear:    b.PeriodYear,
		PeriodMonth:   b.PeriodMonth,
		BillingType:   string(b.BillingType),
		TotalLiters:   toDec128(b.TotalLiters),
		PricePerLiter: toDec128(b.PricePerLiter),
		MilkAmount:    toDec128(b.MilkAmount),
		ExtrasAmount:  toDec128(b.ExtrasAmount),
		TotalAmount:   toDec128(b.TotalAmount),
		DueDate:       b.DueDate,
		Status:        string(b.Status),
		Payments:      make([]paymentDoc, 0, len(b.Payments)),
		CreatedAt:     b.CreatedAt,
	}
	for i := range b.Payments {
		doc.Payments = append(doc.Payments, newPaymentDoc(&b.Payments[i]))
	}
	return doc
}

func (d billDoc) toModel() *models.Bill {
	bill := &models.Bill{
		ID:            d.ID,
		InvoiceNumber: d.InvoiceNumber,
		CustomerID:    d.CustomerID,
		PeriodYear:    d.PeriodYear,
		PeriodMonth:   d.PeriodMonth,
		BillingType:   models.BillingType(d.BillingType),
		TotalLiters:   fromDec128(d.TotalLiters),
		PricePerLiter: fromDec128(d.PricePerLiter),
		MilkAmount:    fromDec128(d.MilkAmount),
		ExtrasAmount:  fromDec128(d.ExtrasAmount),
		TotalAmount:   fromDec128(d.TotalAmount),
		DueDate:       d.DueDate,
		Status:        models.BillStatus(d.Status),
		Payments:      []models.Payment{},
		CreatedAt:     d.CreatedAt,
	}
	for _, p := range d.Payments {
		bill.Payments = append(bill.Payments, p.toModel())
	}
	return bill
}

// nextSequence hands out int64 ids from the counters collection, the usual
// mongo substitute for BIGSERIAL.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, err
	}
	return out.Seq, nil
}
