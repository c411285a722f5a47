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

// CommentRepository persists product comments, one per (product, user).
type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(store *database.Store) *CommentRepository {
	return &CommentRepository{coll: store.Comments}
}

// Upsert writes the user's comment on a product, replacing any earlier
// one. Last write wins on the unique (productId, userId) key; createdAt
// is preserved across overwrites, updatedAt is refreshed.
func (r *CommentRepository) Upsert(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	now := time.Now()
	set := bson.M{
		"text":      c.Text,
		"visible":   true,
		"updatedAt": now,
	}
	if c.Rating > 0 {
		set["rating"] = c.Rating
	}

	var out models.Comment
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"productId": c.ProductID, "userId": c.UserID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVisibleByProduct returns one page of a product's visible comments
// plus the total visible count. Ordering is by updatedAt ascending: a
// re-posted comment gets a refreshed timestamp and moves to the end,
// behind comments posted in between.
func (r *CommentRepository) ListVisibleByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int64) ([]models.Comment, int64, error) {
	filter := bson.M{"productId": productID, "visible": true}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}}).
		SetSkip((page-1)*limit).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	comments := []models.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Moderate applies an admin change (visible flag and/or text). Returns
// mongo.ErrNoDocuments for an unknown id.
func (r *CommentRepository) Moderate(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Comment, error) {
	set["updatedAt"] = time.Now()
	var out models.Comment
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
