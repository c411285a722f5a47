// Package models holds the persisted document shapes.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a shipping address. Orders carry a copy of it, never a
// reference, so later profile edits cannot rewrite order history.
type Address struct {
	Line1   string `bson:"line1" json:"line1"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
	Country string `bson:"country" json:"country"`
}

// User is a shop customer. Phone is the login identity, unique per index.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Phone        string             `bson:"phone" json:"phone"`
	Name         string             `bson:"name" json:"name"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Address      Address            `bson:"address" json:"address"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Admin is a back-office principal, in a namespace disjoint from users.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
