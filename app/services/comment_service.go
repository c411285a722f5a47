package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/pkg/apperr"
)

// CommentStore is the slice of the comment repository the service needs.
type CommentStore interface {
	Upsert(ctx context.Context, c *models.Comment) (*models.Comment, error)
	ListVisibleByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int64) ([]models.Comment, int64, error)
	Moderate(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CommentService owns the per-product feedback ledger: one comment per
// (product, user), last write wins.
type CommentService struct {
	comments CommentStore
	products ProductReader
}

func NewCommentService(comments CommentStore, products ProductReader) *CommentService {
	return &CommentService{comments: comments, products: products}
}

func (s *CommentService) sellableBySlugOrID(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("could not load product", err)
	}
	if !p.Visible {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

// Upsert stores the user's comment on a product. Posting again replaces
// the earlier comment and refreshes its timestamp. Rating is optional;
// when given it must be 1–5.
func (s *CommentService) Upsert(ctx context.Context, productID, userID primitive.ObjectID, text string, rating int) (*models.Comment, error) {
	if text == "" {
		return nil, apperr.Validation("text is required")
	}
	if rating != 0 && (rating < 1 || rating > 5) {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	if _, err := s.sellableBySlugOrID(ctx, productID); err != nil {
		return nil, err
	}

	c, err := s.comments.Upsert(ctx, &models.Comment{
		ProductID: productID,
		UserID:    userID,
		Text:      text,
		Rating:    rating,
	})
	if err != nil {
		return nil, apperr.Internal("could not save comment", err)
	}
	return c, nil
}

// List returns one page of a product's visible comments plus the total,
// ordered oldest-update first so a re-posted comment sorts last.
func (s *CommentService) List(ctx context.Context, productID primitive.ObjectID, page, limit int64) ([]models.Comment, int64, error) {
	if _, err := s.sellableBySlugOrID(ctx, productID); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.comments.ListVisibleByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, 0, apperr.Internal("could not list comments", err)
	}
	return comments, total, nil
}

// CommentPatch is the admin moderation payload.
type CommentPatch struct {
	Visible *bool
	Text    *string
}

// Moderate lets an admin hide, unhide, or redact a comment.
func (s *CommentService) Moderate(ctx context.Context, id primitive.ObjectID, patch CommentPatch) (*models.Comment, error) {
	set := bson.M{}
	if patch.Visible != nil {
		set["visible"] = *patch.Visible
	}
	if patch.Text != nil {
		if *patch.Text == "" {
			return nil, apperr.Validation("text cannot be empty")
		}
		set["text"] = *patch.Text
	}
	if len(set) == 0 {
		return nil, apperr.Validation("nothing to update")
	}

	c, err := s.comments.Moderate(ctx, id, set)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Internal("could not update comment", err)
	}
	return c, nil
}

// Delete removes a comment outright (admin only).
func (s *CommentService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("comment not found")
		}
		return apperr.Internal("could not delete comment", err)
	}
	return nil
}
