package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/response"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Checkout places an order from the caller's cart.
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	order, err := c.checkout.Checkout(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, order)
}

type buyNowBody struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"quantity" validate:"required,gt=0"`
}

// BuyNow places a single-line order directly, leaving the cart alone.
func (c *CheckoutController) BuyNow(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body buyNowBody
	if !decode(w, r, &body) {
		return
	}

	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, apperr.CodeValidation, "invalid productId")
		return
	}

	order, err := c.checkout.BuyNow(r.Context(), userID, productID, body.Qty)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, order)
}

// Orders lists the caller's order history, newest first.
func (c *CheckoutController) Orders(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	orders, err := c.checkout.Orders(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"items": orders})
}
