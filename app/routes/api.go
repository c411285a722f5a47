// Package routes wires the HTTP surface to the controllers.
package routes

import (
	"time"

	"github.com/glowmart/glowmart/app/controllers"
	"github.com/glowmart/glowmart/pkg/auth"
	"github.com/glowmart/glowmart/pkg/metrics"
	"github.com/glowmart/glowmart/pkg/middleware"
	"github.com/glowmart/glowmart/pkg/rbac"
	"github.com/glowmart/glowmart/pkg/router"
)

// Controllers bundles everything RegisterAPI mounts. Built once in
// internal/server from the wired services.
type Controllers struct {
	Auth     *controllers.AuthController
	Product  *controllers.ProductController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Comment  *controllers.CommentController
	Feed     *controllers.FeedController
}

// RegisterAPI mounts every route. Credential endpoints are rate limited
// per IP; user routes require a valid token; admin routes additionally
// require the admin role.
func RegisterAPI(r *router.Router, c *Controllers) {
	r.Get("/health", "health", controllers.Health)
	r.Get("/metrics", "metrics", metrics.Handler())

	limited := middleware.RateLimit(50, 15*time.Minute)

	// public
	r.Post("/admin/login", "admin.login", c.Auth.AdminLogin, limited)
	r.Post("/auth/signup", "auth.signup", c.Auth.Signup, limited)
	r.Post("/auth/login", "auth.login", c.Auth.Login, limited)

	r.Get("/products", "products.list", c.Product.List)
	r.Get("/products/{slug}", "products.show", c.Product.GetBySlug)
	r.Get("/products/{slug}/comments", "comments.list", c.Comment.List)

	// authenticated users
	user := r.Group("", middleware.Auth, rbac.HasRole(auth.RoleUser))
	user.Post("/products/{slug}/comments", "comments.create", c.Comment.Create)
	user.Post("/cart/add", "cart.add", c.Cart.Add)
	user.Get("/cart", "cart.view", c.Cart.View)
	user.Patch("/cart/item/{productId}", "cart.setqty", c.Cart.SetQty)
	user.Delete("/cart/item/{productId}", "cart.remove", c.Cart.Remove)
	user.Post("/cart/checkout", "cart.checkout", c.Checkout.Checkout)
	user.Post("/checkout/now", "checkout.now", c.Checkout.BuyNow)
	user.Get("/orders", "orders.list", c.Checkout.Orders)

	// admin console
	admin := r.Group("/admin", middleware.Auth, rbac.HasRole(auth.RoleAdmin))
	admin.Post("/products", "admin.products.create", c.Product.Create)
	admin.Get("/products", "admin.products.list", c.Product.AdminList)
	admin.Patch("/products/{id}", "admin.products.update", c.Product.Update)
	admin.Delete("/products/{id}", "admin.products.delete", c.Product.Delete)
	admin.Patch("/products/{id}/stock", "admin.products.restock", c.Product.Restock)
	admin.Post("/products/{id}/image", "admin.products.image", c.Product.UploadImage)
	admin.Patch("/comments/{id}", "admin.comments.moderate", c.Comment.Moderate)
	admin.Delete("/comments/{id}", "admin.comments.delete", c.Comment.Delete)
	admin.Get("/orders/feed", "admin.orders.feed", c.Feed.Orders)
}
