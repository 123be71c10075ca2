package repository

import (
	"context"
	"errors"
	"time"

	"gokuldairy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type mongoUserDoc struct {
	ID        int64     `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone"`
	Role      string    `bson:"role"`
	Password  string    `bson:"password_hash"`
	CreatedAt time.Time `bson:"created_at"`
}

type MongoUserRepo struct {
	DB *mongo.Client
}

func NewMongoUserRepo(db *mongo.Client) *MongoUserRepo {
	_, _ = db.Database(mongoDBName).Collection("app_user").Indexes().CreateOne(
		context.Background(),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	return &MongoUserRepo{DB: db}
}

func (r *MongoUserRepo) CreateUser(user *models.AppUser) error {
	ctx := context.Background()
	db := r.DB.Database(mongoDBName)

	if user.Password == "" {
		return errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.ID == 0 {
		id, err := nextSequence(ctx, db, "app_user")
		if err != nil {
			return err
		}
		user.ID = id
	}

	_, err = db.Collection("app_user").InsertOne(ctx, mongoUserDoc{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		Password:  user.Password,
		CreatedAt: user.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return errors.New("email already exists")
	}
	return err
}

func (r *MongoUserRepo) GetUserByEmail(email string) (*models.AppUser, error) {
	ctx := context.Background()

	var doc mongoUserDoc
	err := r.DB.Database(mongoDBName).Collection("app_user").
		FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &models.AppUser{
		ID:        doc.ID,
		Name:      doc.Name,
		Email:     doc.Email,
		Phone:     doc.Phone,
		Role:      doc.Role,
		Password:  doc.Password,
		CreatedAt: doc.CreatedAt,
	}, nil
}
