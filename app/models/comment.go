package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is per-product user feedback. The (productId, userId) pair is
// unique per index; a second comment from the same user overwrites the
// first and refreshes UpdatedAt. Rating is optional (0 means unrated).
// Visible is flipped by admin moderation.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Visible   bool               `bson:"visible" json:"visible"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
