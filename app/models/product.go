package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Slug and name are both unique per index.
// Invariants enforced on every write path: mrp >= sellingPrice >= 0 and
// stock >= 0. Stock is mutated only by checkout decrements and admin
// restock.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Slug         string             `bson:"slug" json:"slug"`
	MRP          float64            `bson:"mrp" json:"mrp"`
	SellingPrice float64            `bson:"sellingPrice" json:"sellingPrice"`
	Description  string             `bson:"description" json:"description"`
	Image        string             `bson:"image" json:"image"`
	Visible      bool               `bson:"visible" json:"visible"`
	Category     string             `bson:"category" json:"category"`
	Stock        int                `bson:"stock" json:"stock"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
