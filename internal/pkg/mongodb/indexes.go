package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
)

// Model is implemented by collection-backed models that manage their own indexes
type Model interface {
	// Collection returns the collection name
	Collection() string

	// EnsureIndexes creates and maintains the model's indexes
	EnsureIndexes(ctx context.Context, db *mongo.Database) error
}

// EnsureIndexes creates indexes for every registered model.
// Called once at application startup.
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&story.Fragment{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}

// EnsureAllIndexes creates indexes for the given models
func EnsureAllIndexes(ctx context.Context, db *mongo.Database, models ...Model) error {
	for _, model := range models {
		if err := model.EnsureIndexes(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

// CreateIndexes creates a batch of indexes on one collection
func CreateIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateIndex creates a single index
func CreateIndex(ctx context.Context, coll *mongo.Collection, index mongo.IndexModel) error {
	_, err := coll.Indexes().CreateOne(ctx, index)
	return err
}
