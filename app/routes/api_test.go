package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/glowmart/app/controllers"
	"github.com/glowmart/glowmart/app/routes"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/auth"
	"github.com/glowmart/glowmart/pkg/router"
)

// newTestRouter mounts the full route table. The services carry no
// stores; these tests only exercise routing and the middleware gates,
// which decide before any handler touches a store.
func newTestRouter() *router.Router {
	c := &routes.Controllers{
		Auth:     controllers.NewAuthController(services.NewAuthService(nil)),
		Product:  controllers.NewProductController(services.NewCatalogService(nil)),
		Cart:     controllers.NewCartController(services.NewCartService(nil, nil)),
		Checkout: controllers.NewCheckoutController(services.NewCheckoutService(nil, nil, nil, nil)),
		Comment:  controllers.NewCommentController(services.NewCommentService(nil, nil), services.NewCatalogService(nil)),
		Feed:     controllers.NewFeedController(),
	}

	r := router.New()
	routes.RegisterAPI(r, c)
	return r
}

func TestRouteTableComplete(t *testing.T) {
	r := newTestRouter()

	names := []string{
		"health", "metrics",
		"admin.login", "auth.signup", "auth.login",
		"products.list", "products.show", "comments.list",
		"comments.create",
		"cart.add", "cart.view", "cart.setqty", "cart.remove",
		"cart.checkout", "checkout.now", "orders.list",
		"admin.products.create", "admin.products.list",
		"admin.products.update", "admin.products.delete",
		"admin.products.restock", "admin.products.image",
		"admin.comments.moderate", "admin.comments.delete",
		"admin.orders.feed",
	}

	for _, name := range names {
		_, ok := r.Path(name)
		assert.True(t, ok, "route %q not registered", name)
	}
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UP")
}

func TestUserRoutesRejectAnonymous(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/cart", "/orders"} {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "GET %s", path)
	}
}

func TestAdminRoutesRejectUserToken(t *testing.T) {
	r := newTestRouter()

	token, err := auth.GenerateToken("64f1c0ffee0000000000abcd", auth.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserRoutesRejectAdminToken(t *testing.T) {
	r := newTestRouter()

	token, err := auth.GenerateToken("admin-id", auth.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestURLBuildsNamedRoutes(t *testing.T) {
	r := newTestRouter()

	url, err := r.URL("products.show", map[string]string{"slug": "face-serum"})
	require.NoError(t, err)
	assert.Equal(t, "/products/face-serum", url)
}
