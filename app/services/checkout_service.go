package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/event"
	"github.com/glowmart/glowmart/pkg/logger"
	"github.com/glowmart/glowmart/pkg/metrics"
)

// EventOrderPlaced is fired after an order has committed. Payload is the
// *models.Order. Listeners (confirmation job, admin feed, metrics) run
// outside the checkout's atomic unit: their failures never unwind a
// placed order.
const EventOrderPlaced = "order.placed"

// StockStore is the product access checkout needs: the conditional
// decrement, its compensating increment, and a plain read to classify
// failures.
type StockStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// OrderStore persists committed orders.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
}

// AddressReader loads the user whose shipping address gets copied onto
// the order.
type AddressReader interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// CheckoutService turns a cart into an order, all-or-nothing.
//
// There is no cross-document transaction here. Atomicity comes from
// per-product conditional decrements (stock >= qty guards every $inc)
// plus compensation: if any line fails, every decrement already taken is
// given back before the error returns. Two users racing for the last
// unit resolve at the decrement — exactly one matches the filter.
type CheckoutService struct {
	carts    CartStore
	products StockStore
	orders   OrderStore
	users    AddressReader
}

func NewCheckoutService(carts CartStore, products StockStore, orders OrderStore, users AddressReader) *CheckoutService {
	return &CheckoutService{carts: carts, products: products, orders: orders, users: users}
}

// Checkout places an order from the user's cart. Fails EMPTY_CART when
// there are no lines; OUT_OF_STOCK names the first under-stocked product.
// On success the cart is cleared and the order returned.
func (s *CheckoutService) Checkout(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("could not read cart", err)
	}
	if len(lines) == 0 {
		return nil, apperr.EmptyCart()
	}

	order, err := s.place(ctx, userID, lines)
	if err != nil {
		return nil, err
	}

	// The order is committed; a failed cart clear must not unwind it.
	// Worst case the stale lines fail their next checkout's re-validation.
	if err := s.carts.Clear(ctx, userID); err != nil {
		logger.WithCtx(ctx).Error("checkout: cart clear failed after commit",
			"user_id", userID.Hex(), "order_id", order.ID.Hex(), "error", err)
	}

	return order, nil
}

// BuyNow places a single-line order directly, bypassing the cart.
func (s *CheckoutService) BuyNow(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.Order, error) {
	if qty <= 0 {
		return nil, apperr.Validation("qty must be > 0")
	}
	return s.place(ctx, userID, []models.CartLine{{ProductID: productID, Qty: qty}})
}

// place decrements stock for every line, then persists the snapshot
// order. Any failure after the first decrement triggers compensation.
func (s *CheckoutService) place(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine) (*models.Order, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("could not load user", err)
	}

	type taken struct {
		productID primitive.ObjectID
		qty       int
	}
	var decremented []taken

	// Compensation runs on a detached context: the client hanging up
	// mid-checkout must not strand half-decremented stock.
	rollback := func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		for _, t := range decremented {
			if err := s.products.IncrementStock(rctx, t.productID, t.qty); err != nil {
				logger.WithCtx(ctx).Error("checkout: stock rollback failed",
					"product_id", t.productID.Hex(), "qty", t.qty, "error", err)
			}
		}
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total float64

	for _, line := range lines {
		p, err := s.products.DecrementStock(ctx, line.ProductID, line.Qty)
		if err != nil {
			rollback()
			if err != mongo.ErrNoDocuments {
				return nil, apperr.Internal("could not reserve stock", err)
			}
			return nil, s.classifyDecrementFailure(ctx, line)
		}

		// p is the post-decrement document: its name and sellingPrice are
		// the authoritative snapshot for this purchase.
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Qty:       line.Qty,
			UnitPrice: p.SellingPrice,
		})
		total += float64(line.Qty) * p.SellingPrice
		decremented = append(decremented, taken{productID: p.ID, qty: line.Qty})
	}

	order := &models.Order{
		UserID:  userID,
		Items:   items,
		Total:   total,
		Status:  models.OrderStatusPlaced,
		Address: user.Address,
	}

	id, err := s.orders.Create(ctx, order)
	if err != nil {
		rollback()
		return nil, apperr.Internal("could not create order", err)
	}
	order.ID = id

	metrics.RecordOrder(order.Total)
	event.FireAsync(EventOrderPlaced, order)

	return order, nil
}

// classifyDecrementFailure distinguishes "product gone" from "not enough
// stock" after a conditional decrement matched nothing.
func (s *CheckoutService) classifyDecrementFailure(ctx context.Context, line models.CartLine) error {
	metrics.CheckoutConflicts.Inc()

	p, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("product no longer available")
		}
		return apperr.Internal("could not load product", err)
	}
	return apperr.OutOfStock(p.Slug, p.Stock)
}

// Orders returns the caller's order history, newest first.
func (s *CheckoutService) Orders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("could not list orders", err)
	}
	return orders, nil
}
