package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatusPlaced is the only order status; cancellation is not
// modeled and orders are immutable after creation.
const OrderStatusPlaced = "placed"

// OrderItem is a frozen snapshot of a purchased line: product identity
// and the unit selling price at commit time, never a live reference.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Qty       int                `bson:"qty" json:"quantity"`
	UnitPrice float64            `bson:"unitPrice" json:"unitPrice"`
}

// Order is a committed checkout. Address is a copy of the user's
// shipping address as of purchase.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	Status    string             `bson:"status" json:"status"`
	Address   Address            `bson:"address" json:"address"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
