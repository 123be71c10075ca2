package repository

import (
	"context"
	"errors"
	"time"

	"gokuldairy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDeliveryRepo struct {
	DB *mongo.Client
}

func NewMongoDeliveryRepo(db *mongo.Client) *MongoDeliveryRepo {
	repo := &MongoDeliveryRepo{DB: db}

	// One attendance record per customer per day.
	_, _ = db.Database(mongoDBName).Collection("delivery_record").Indexes().CreateOne(
		context.Background(),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "customer_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	return repo
}

// SaveDelivery upserts the day's record. Once the month has a bill the
// period is closed and the write is rejected.
func (r *MongoDeliveryRepo) SaveDelivery(d *models.DeliveryRecord) error {
	ctx := context.Background()
	db := r.DB.Database(mongoDBName)

	d.Date = d.Date.UTC().Truncate(24 * time.Hour)

	count, err := db.Collection("bill").CountDocuments(ctx, bson.M{
		"customer_id":  d.CustomerID,
		"period_year":  d.Date.Year(),
		"period_month": int(d.Date.Month()),
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPeriodBilled
	}

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	var existing deliveryDoc
	err = db.Collection("delivery_record").
		FindOne(ctx, bson.M{"customer_id": d.CustomerID, "date": d.Date}).Decode(&existing)
	switch {
	case err == nil:
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
		_, err = db.Collection("delivery_record").
			ReplaceOne(ctx, bson.M{"_id": existing.ID}, newDeliveryDoc(d))
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		id, seqErr := nextSequence(ctx, db, "delivery_record")
		if seqErr != nil {
			return seqErr
		}
		d.ID = id
		_, err = db.Collection("delivery_record").InsertOne(ctx, newDeliveryDoc(d))
		return err
	default:
		return err
	}
}

func (r *MongoDeliveryRepo) ListDeliveries(customerID int64, from, to time.Time) ([]*models.DeliveryRecord, error) {
	ctx := context.Background()

	cur, err := r.DB.Database(mongoDBName).Collection("delivery_record").Find(ctx,
		bson.M{
			"customer_id": customerID,
			"date":        bson.M{"$gte": from, "$lte": to},
		},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.DeliveryRecord
	for cur.Next(ctx) {
		var doc deliveryDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}
