package repository

import (
	"context"
	"errors"

	"gokuldairy/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoBillRepo struct {
	DB *mongo.Client
}

func NewMongoBillRepo(db *mongo.Client) *MongoBillRepo {
	repo := &MongoBillRepo{DB: db}

	// Idempotent generation rests on these: one bill per customer-period,
	// invoice numbers globally unique.
	coll := db.Database(mongoDBName).Collection("bill")
	_, _ = coll.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "customer_id", Value: 1},
				{Key: "period_year", Value: 1},
				{Key: "period_month", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "invoice_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return repo
}

// CreateBillAndCharge inserts the bill and applies the balance charge in a
// single session transaction; both land or neither does.
func (r *MongoBillRepo) CreateBillAndCharge(bill *models.Bill) error {
	ctx := context.Background()
	db := r.DB.Database(mongoDBName)

	if bill.ID == 0 {
		id, err := nextSequence(ctx, db, "bill")
		if err != nil {
			return err
		}
		bill.ID = id
	}

	sess, err := r.DB.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.Collection("bill").InsertOne(sc, newBillDoc(bill)); err != nil {
			return nil, err
		}

		res, err := db.Collection("customer_account").UpdateOne(sc,
			bson.M{"_id": bill.CustomerID},
			bson.M{"$inc": bson.M{"balance_due": toDec128(bill.TotalAmount)}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	})

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateBill
	}
	return err
}

func (r *MongoBillRepo) GetBillByID(id int64) (*models.Bill, error) {
	return r.findOne(bson.M{"_id": id})
}

func (r *MongoBillRepo) GetBillByPeriod(customerID int64, year, month int) (*models.Bill, error) {
	return r.findOne(bson.M{
		"customer_id":  customerID,
		"period_year":  year,
		"period_month": month,
	})
}

func (r *MongoBillRepo) findOne(filter bson.M) (*models.Bill, error) {
	ctx := context.Background()

	var doc billDoc
	err := r.DB.Database(mongoDBName).Collection("bill").FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoBillRepo) ListBills(filter BillFilter) ([]*models.Bill, error) {
	query := bson.M{}
	if filter.CustomerID != 0 {
		query["customer_id"] = filter.CustomerID
	}
	if filter.PeriodYear != 0 {
		query["period_year"] = filter.PeriodYear
	}
	if filter.PeriodMonth != 0 {
		query["period_month"] = filter.PeriodMonth
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	return r.findAll(query)
}

func (r *MongoBillRepo) ListBillsByCustomer(customerID int64) ([]*models.Bill, error) {
	return r.findAll(bson.M{"customer_id": customerID})
}

func (r *MongoBillRepo) findAll(query bson.M) ([]*models.Bill, error) {
	ctx := context.Background()

	cur, err := r.DB.Database(mongoDBName).Collection("bill").Find(ctx, query,
		options.Find().SetSort(bson.D{
			{Key: "period_year", Value: -1},
			{Key: "period_month", Value: -1},
			{Key: "customer_id", Value: 1},
		}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Bill
	for cur.Next(ctx) {
		var doc billDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}

// AppendPayment pushes the payment onto the bill's ledger, marks the bill
// paid once covered, and credits the customer balance, all in one session
// transaction. The $push keeps concurrent submissions for the same bill
// from losing entries.
func (r *MongoBillRepo) AppendPayment(billID int64, p *models.Payment) (*models.Bill, error) {
	ctx := context.Background()
	db := r.DB.Database(mongoDBName)

	sess, err := r.DB.StartSession()
	if err != nil {
		return nil, err
	}
	defer sess.EndSession(ctx)

	result, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc billDoc
		err := db.Collection("bill").FindOneAndUpdate(sc,
			bson.M{"_id": billID},
			bson.M{"$push": bson.M{"payments": newPaymentDoc(p)}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		bill := doc.toModel()
		if bill.Status != models.BillPaid && bill.IsSettled() {
			if _, err := db.Collection("bill").UpdateOne(sc,
				bson.M{"_id": billID},
				bson.M{"$set": bson.M{"status": string(models.BillPaid)}}); err != nil {
				return nil, err
			}
			bill.Status = models.BillPaid
		}

		res, err := db.Collection("customer_account").UpdateOne(sc,
			bson.M{"_id": bill.CustomerID},
			bson.M{"$inc": bson.M{"balance_due": toDec128(p.Amount.Neg())}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		return bill, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Bill), nil
}

func (r *MongoBillRepo) UpdateStatus(billID int64, status models.BillStatus) error {
	ctx := context.Background()

	res, err := r.DB.Database(mongoDBName).Collection("bill").UpdateOne(ctx,
		bson.M{"_id": billID},
		bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBillRepo) CustomerBalance(customerID int64) (decimal.Decimal, error) {
	ctx := context.Background()

	var doc customerDoc
	err := r.DB.Database(mongoDBName).Collection("customer_account").
		FindOne(ctx, bson.M{"_id": customerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}
	return fromDec128(doc.BalanceDue), nil
}
