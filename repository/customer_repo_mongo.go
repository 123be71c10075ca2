package repository

import (
	"context"
	"errors"
	"time"

	"gokuldairy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoCustomerRepo struct {
	DB *mongo.Client
}

func NewMongoCustomerRepo(db *mongo.Client) *MongoCustomerRepo {
	return &MongoCustomerRepo{DB: db}
}

func (r *MongoCustomerRepo) CreateCustomer(c *models.CustomerAccount) error {
	ctx := context.Background()
	db := r.DB.Database(mongoDBName)

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.ID == 0 {
		id, err := nextSequence(ctx, db, "customer_account")
		if err != nil {
			return err
		}
		c.ID = id
	}

	_, err := db.Collection("customer_account").InsertOne(ctx, newCustomerDoc(c))
	return err
}

func (r *MongoCustomerRepo) GetCustomer(id int64) (*models.CustomerAccount, error) {
	ctx := context.Background()

	var doc customerDoc
	err := r.DB.Database(mongoDBName).Collection("customer_account").
		FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoCustomerRepo) ListCustomers(activeOnly bool) ([]*models.CustomerAccount, error) {
	ctx := context.Background()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	cur, err := r.DB.Database(mongoDBName).Collection("customer_account").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.CustomerAccount
	for cur.Next(ctx) {
		var doc customerDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}

// UpdateCustomer rewrites contact and plan fields. balance_due is left
// untouched so it can only move through the atomic bill/payment operations.
func (r *MongoCustomerRepo) UpdateCustomer(c *models.CustomerAccount) error {
	ctx := context.Background()
	now := time.Now().UTC()
	c.UpdatedAt = &now

	res, err := r.DB.Database(mongoDBName).Collection("customer_account").UpdateOne(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": bson.M{
			"name":                c.Name,
			"phone":               c.Phone,
			"address":             c.Address,
			"active":              c.Active,
			"billing_type":        string(c.Plan.Type),
			"subscription_amount": toDec128(c.Plan.SubscriptionAmount),
			"price_per_liter":     toDec128(c.Plan.PricePerLiter),
			"updated_at":          c.UpdatedAt,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
