package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/pkg/apperr"
)

// CartStore is the slice of the cart repository the cart service needs.
type CartStore interface {
	AddQty(ctx context.Context, userID, productID primitive.ObjectID, qty int) error
	SetQty(ctx context.Context, userID, productID primitive.ObjectID, qty int) error
	Remove(ctx context.Context, userID, productID primitive.ObjectID) error
	Lines(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error)
	Line(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartLine, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// ProductReader is the read-only product access cart operations need.
type ProductReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// CartService mutates per-user carts. Quantity merges are a single
// atomic upsert in the store, so concurrent adds for the same line both
// count; the stock check before the write is advisory only — checkout is
// the final authority.
type CartService struct {
	carts    CartStore
	products ProductReader
}

func NewCartService(carts CartStore, products ProductReader) *CartService {
	return &CartService{carts: carts, products: products}
}

// lookupSellable loads a product for a cart mutation. Unknown and hidden
// products are both NOT_FOUND, matching the public catalog surface.
func (s *CartService) lookupSellable(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
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

// AddItem merges qty into the user's line for the product. Fails
// OUT_OF_STOCK when the cumulative quantity (existing line + qty) would
// exceed current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) error {
	if qty <= 0 {
		return apperr.Validation("qty must be > 0")
	}

	p, err := s.lookupSellable(ctx, productID)
	if err != nil {
		return err
	}

	existing := 0
	line, err := s.carts.Line(ctx, userID, productID)
	switch {
	case err == nil:
		existing = line.Qty
	case err == mongo.ErrNoDocuments:
		// first add of this product
	default:
		return apperr.Internal("could not read cart", err)
	}

	if existing+qty > p.Stock {
		return apperr.OutOfStock(p.Slug, p.Stock)
	}

	if err := s.carts.AddQty(ctx, userID, productID, qty); err != nil {
		return apperr.Internal("could not add to cart", err)
	}
	return nil
}

// SetQty replaces the line quantity outright.
func (s *CartService) SetQty(ctx context.Context, userID, productID primitive.ObjectID, qty int) error {
	if qty <= 0 {
		return apperr.Validation("qty must be > 0")
	}

	p, err := s.lookupSellable(ctx, productID)
	if err != nil {
		return err
	}
	if qty > p.Stock {
		return apperr.OutOfStock(p.Slug, p.Stock)
	}

	if err := s.carts.SetQty(ctx, userID, productID, qty); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("product not in cart")
		}
		return apperr.Internal("could not update cart", err)
	}
	return nil
}

// RemoveItem deletes the line. Idempotent: removing an absent line
// succeeds, matching DELETE semantics.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	if err := s.carts.Remove(ctx, userID, productID); err != nil {
		return apperr.Internal("could not remove from cart", err)
	}
	return nil
}

// View joins the cart lines with live product data and computes totals.
// Lines whose product has meanwhile vanished or been hidden are skipped
// rather than erroring the whole view; checkout will reconcile them.
func (s *CartService) View(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("could not read cart", err)
	}

	view := &models.CartView{Items: []models.CartViewItem{}}
	for _, line := range lines {
		p, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return nil, apperr.Internal("could not load product", err)
		}
		if !p.Visible {
			continue
		}

		lineTotal := float64(line.Qty) * p.SellingPrice
		view.Items = append(view.Items, models.CartViewItem{
			ProductID:    p.ID,
			Name:         p.Name,
			Slug:         p.Slug,
			Image:        p.Image,
			SellingPrice: p.SellingPrice,
			MRP:          p.MRP,
			Qty:          line.Qty,
			LineTotal:    lineTotal,
			Stock:        p.Stock,
			AddedAt:      line.AddedAt,
		})
		view.Total += lineTotal
	}
	return view, nil
}
