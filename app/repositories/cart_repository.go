package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/pkg/database"
)

// CartRepository persists cart lines, one document per (user, product).
type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(store *database.Store) *CartRepository {
	return &CartRepository{coll: store.Carts}
}

// AddQty merges qty into the user's line for the product: an atomic $inc
// upsert keyed on the unique (userId, productId) index. Two concurrent
// adds both land, never a lost update, because nothing here reads before
// writing. addedAt is set only on insert so the line keeps its original
// position in the cart.
func (r *CartRepository) AddQty(ctx context.Context, userID, productID primitive.ObjectID, qty int) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "productId": productID},
		bson.M{
			"$inc":         bson.M{"qty": qty},
			"$setOnInsert": bson.M{"addedAt": time.Now()},
		},
		options.Update().SetUpsert(true))
	return err
}

// SetQty replaces the line quantity. Returns mongo.ErrNoDocuments when
// the product is not in the cart.
func (r *CartRepository) SetQty(ctx context.Context, userID, productID primitive.ObjectID, qty int) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "productId": productID},
		bson.M{"$set": bson.M{"qty": qty}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Remove deletes the line. Idempotent: removing an absent line is fine.
func (r *CartRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	return err
}

// Lines returns the user's cart lines in insertion order.
func (r *CartRepository) Lines(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	lines := []models.CartLine{}
	if err := cur.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Line returns one cart line, mongo.ErrNoDocuments when absent.
func (r *CartRepository) Line(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.coll.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Decode(&line)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Clear drops the user's whole cart. Checkout calls it only after the
// order insert has succeeded.
func (r *CartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
