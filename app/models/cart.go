package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one product in one user's cart. The (userId, productId)
// pair is unique per index; adding the same product again merges
// quantities with an atomic $inc upsert against that index.
type CartLine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Qty       int                `bson:"qty" json:"quantity"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

// CartView is the live-joined cart returned to the client: each line
// decorated with current product data plus cart-level totals.
type CartView struct {
	Items []CartViewItem `json:"items"`
	Total float64        `json:"total"`
}

// CartViewItem joins a cart line with the product as it is right now.
// Prices here are advisory; the checkout snapshot is authoritative.
type CartViewItem struct {
	ProductID    primitive.ObjectID `json:"productId"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Image        string             `json:"image"`
	SellingPrice float64            `json:"sellingPrice"`
	MRP          float64            `json:"mrp"`
	Qty          int                `json:"quantity"`
	LineTotal    float64            `json:"lineTotal"`
	Stock        int                `json:"stock"`
	AddedAt      time.Time          `json:"addedAt"`
}
