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

type MongoProfileRepo struct {
	DB *mongo.Client
}

func NewMongoProfileRepo(db *mongo.Client) *MongoProfileRepo {
	return &MongoProfileRepo{DB: db}
}

func (r *MongoProfileRepo) SaveProfile(profile *models.DairyProfile) error {
	ctx := context.Background()
	db := r.DB.Database(mongoDBName)

	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	if profile.ID == 0 {
		id, err := nextSequence(ctx, db, "dairy_profile")
		if err != nil {
			return err
		}
		profile.ID = id
	}

	// Single-document collection; the latest save wins.
	_, err := db.Collection("dairy_profile").ReplaceOne(ctx,
		bson.M{"_id": profile.ID}, profile, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoProfileRepo) GetProfile() (*models.DairyProfile, error) {
	ctx := context.Background()

	var profile models.DairyProfile
	err := r.DB.Database(mongoDBName).Collection("dairy_profile").
		FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).
		Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
