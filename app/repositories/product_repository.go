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

// ProductRepository persists catalog entries and owns the atomic stock
// mutations the checkout path depends on.
type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(store *database.Store) *ProductRepository {
	return &ProductRepository{coll: store.Products}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) (primitive.ObjectID, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SlugExists reports whether any product already uses slug. The create
// path probes candidate slugs with it; the unique index remains the
// final authority against races.
func (r *ProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"slug": slug},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListVisible returns visible products in stable slug order.
func (r *ProductRepository) ListVisible(ctx context.Context) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{"visible": true},
		options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Query    string // substring match on name
	Category string
	Visible  *bool
	Page     int64
	PerPage  int64
}

// List returns a filtered, paginated page for the admin console plus the
// total match count.
func (r *ProductRepository) List(ctx context.Context, f ListFilter) ([]models.Product, int64, error) {
	filter := bson.M{}
	if f.Query != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: f.Query, Options: "i"}}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Visible != nil {
		filter["visible"] = *f.Visible
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((f.Page-1)*f.PerPage).
		SetLimit(f.PerPage))
	if err != nil {
		return nil, 0, err
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Update applies a partial $set and bumps updatedAt. Returns
// mongo.ErrNoDocuments when the id does not exist.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	set["updatedAt"] = time.Now()
	var p models.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DecrementStock atomically takes qty units off the product's stock,
// succeeding only while stock >= qty, and returns the product as it was
// the moment the decrement applied (checkout snapshots name and price
// from this document). mongo.ErrNoDocuments means the product is gone or
// under-stocked; the caller re-reads to tell the two apart.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	var p models.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementStock gives qty units back. Used only to compensate a failed
// checkout, so errors are returned for logging but there is nothing more
// to do about them.
func (r *ProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}})
	return err
}

// SetStock replaces the absolute stock count (admin restock).
func (r *ProductRepository) SetStock(ctx context.Context, id primitive.ObjectID, stock int) (*models.Product, error) {
	return r.Update(ctx, id, bson.M{"stock": stock})
}
