package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quill/database"
)

// HealthRepository proves read/write connectivity to the store.
type HealthRepository interface {
	Touch(ctx context.Context) error
}

// healthRepository implements HealthRepository against MongoDB
type healthRepository struct {
	col *mongo.Collection
}

// NewHealthRepository creates a new health repository
func NewHealthRepository(db *mongo.Database) HealthRepository {
	return &healthRepository{col: db.Collection(database.HealthCheckCollection)}
}

// Touch upserts the single sentinel document. Repeated calls update the one
// sentinel rather than creating duplicates.
func (r *healthRepository) Touch(ctx context.Context) error {
	return r.col.FindOneAndUpdate(ctx,
		bson.M{"event": "check"},
		bson.M{"$set": bson.M{"event": "check"}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Err()
}
