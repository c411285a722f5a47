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

// OrderRepository persists committed orders. Orders are immutable, so
// there is no update path.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(store *database.Store) *OrderRepository {
	return &OrderRepository{coll: store.Orders}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (primitive.ObjectID, error) {
	o.CreatedAt = time.Now()
	res, err := r.coll.InsertOne(ctx, o)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// ListByUser returns the caller's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}
