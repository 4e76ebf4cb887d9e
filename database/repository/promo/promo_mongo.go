package promoRepo

import (
	"context"
	"fmt"
	"time"

	"blaccbook/database"
	"blaccbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPromoRepo implements PromoRepository using MongoDB.
type MongoPromoRepo struct {
	coll *mongo.Collection
}

// NewMongoPromoRepo creates a new instance of PromoRepository using MongoDB.
func NewMongoPromoRepo() PromoRepository {
	coll := database.DB().Collection("promo_codes")
	repo := &MongoPromoRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPromoRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new promo code document.
func (r *MongoPromoRepo) Create(promo *models.PromoCode) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	promo.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, promo); err != nil {
		return fmt.Errorf("failed to create promo code: %w", err)
	}
	return nil
}

// GetByCode retrieves a promo code document. Returns nil when absent.
func (r *MongoPromoRepo) GetByCode(code string) (*models.PromoCode, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var promo models.PromoCode
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&promo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch promo code %s: %w", code, err)
	}
	return &promo, nil
}
