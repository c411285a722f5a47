package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/response"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

type addToCartBody struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"quantity" validate:"required,gt=0"`
}

// Add merges qty of a product into the caller's cart.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body addToCartBody
	if !decode(w, r, &body) {
		return
	}

	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, apperr.CodeValidation, "invalid productId")
		return
	}

	if err := c.carts.AddItem(r.Context(), userID, productID, body.Qty); err != nil {
		response.FromError(w, err)
		return
	}

	view, err := c.carts.View(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, view)
}

// View returns the live-joined cart with totals.
func (c *CartController) View(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	view, err := c.carts.View(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, view)
}

type setQtyBody struct {
	Qty int `json:"quantity" validate:"required,gt=0"`
}

// SetQty replaces the quantity of one cart line.
func (c *CartController) SetQty(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	var body setQtyBody
	if !decode(w, r, &body) {
		return
	}

	if err := c.carts.SetQty(r.Context(), userID, productID, body.Qty); err != nil {
		response.FromError(w, err)
		return
	}

	view, err := c.carts.View(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, view)
}

// Remove deletes one cart line. Removing an absent line succeeds.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	if err := c.carts.RemoveItem(r.Context(), userID, productID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"removed": productID.Hex()})
}
