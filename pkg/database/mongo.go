// Package database owns the MongoDB connection and the collection handles
// the repositories work against.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store bundles the client and the typed collection handles so nothing in
// the app reaches for a global database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Users    *mongo.Collection
	Admins   *mongo.Collection
	Products *mongo.Collection
	Carts    *mongo.Collection
	Orders   *mongo.Collection
	Comments *mongo.Collection
}

// Open connects to MongoDB and pings the primary. It fails fast so a bad
// URI surfaces at boot, not on the first request.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client:   client,
		db:       db,
		Users:    db.Collection("users"),
		Admins:   db.Collection("admins"),
		Products: db.Collection("products"),
		Carts:    db.Collection("carts"),
		Orders:   db.Collection("orders"),
		Comments: db.Collection("comments"),
	}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the write paths rely on.
// Uniqueness is enforced here, in the database, so concurrent writers
// cannot race past an application-level existence check.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.Users, mongo.IndexModel{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: unique,
		}},
		{s.Admins, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: unique,
		}},
		{s.Products, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: unique,
		}},
		{s.Products, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: unique,
		}},
		// One cart line per (user, product); quantity merges happen with
		// an atomic $inc upsert against this index.
		{s.Carts, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
			Options: unique,
		}},
		// One comment per user per product; posting again updates it.
		{s.Comments, mongo.IndexModel{
			Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "userId", Value: 1}},
			Options: unique,
		}},
		// Listing sorts by updatedAt so re-posted comments move to the end.
		{s.Comments, mongo.IndexModel{
			Keys: bson.D{{Key: "productId", Value: 1}, {Key: "updatedAt", Value: 1}},
		}},
		{s.Orders, mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
	}

	for _, spec := range specs {
		if _, err := spec.coll.Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("database: index on %s: %w", spec.coll.Name(), err)
		}
	}
	return nil
}
