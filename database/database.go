// Package database manages the MongoDB connection and one-time schema registration.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"quill/config"
)

const databaseName = "blog-site"

// Collection names.
const (
	UsersCollection       = "users"
	BlogsCollection       = "blogs"
	HealthCheckCollection = "HealthCheck"
)

// Connect opens the MongoDB connection, verifies it with a ping, and
// registers the schema (unique indexes) exactly once at startup.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	db := client.Database(databaseName)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("index registration failed: %w", err)
	}

	return db, nil
}

// Disconnect closes the underlying client connection.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// ensureIndexes declares the uniqueness constraints the data model relies on.
// CreateMany is idempotent for identical index definitions.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
