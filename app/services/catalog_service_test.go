package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/apperr"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Face Serum":        "face-serum",
		"  Lip   Balm  ":    "lip-balm",
		"Vitamin-C 2.0":     "vitamin-c-2-0",
		"ROSE & ALOE":       "rose-aloe",
		"---":               "",
		"Moisturiser (50g)": "moisturiser-50g",
	}
	for in, want := range cases {
		assert.Equal(t, want, services.Slugify(in), "input %q", in)
	}
}

func TestCreateProductSlugifies(t *testing.T) {
	svc := services.NewCatalogService(newFakeProductStore())

	p, err := svc.CreateProduct(context.Background(), services.ProductInput{
		Name: "Face Serum", MRP: 599, SellingPrice: 399, Visible: true, Stock: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, "face-serum", p.Slug)
}

func TestCreateProductSlugCollisionGetsSuffix(t *testing.T) {
	store := newFakeProductStore()
	svc := services.NewCatalogService(store)

	// Same slug, different name: "Face Serum" vs "Face  Serum".
	_, err := svc.CreateProduct(context.Background(), services.ProductInput{
		Name: "Face Serum", MRP: 599, SellingPrice: 399, Stock: 10,
	})
	require.NoError(t, err)

	p2, err := svc.CreateProduct(context.Background(), services.ProductInput{
		Name: "Face  Serum", MRP: 599, SellingPrice: 399, Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "face-serum-2", p2.Slug)
}

func TestCreateProductDuplicateName(t *testing.T) {
	store := newFakeProductStore()
	store.seed(models.Product{Name: "Lipstick", Slug: "lipstick-old"})
	svc := services.NewCatalogService(store)

	_, err := svc.CreateProduct(context.Background(), services.ProductInput{
		Name: "Lipstick", MRP: 299, SellingPrice: 199,
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyExists), "got %v", err)
}

func TestCreateProductPriceInvariant(t *testing.T) {
	svc := services.NewCatalogService(newFakeProductStore())

	_, err := svc.CreateProduct(context.Background(), services.ProductInput{
		Name: "Bad", MRP: 100, SellingPrice: 150,
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "mrp < sellingPrice must fail, got %v", err)

	_, err = svc.CreateProduct(context.Background(), services.ProductInput{
		Name: "Bad Too", MRP: 100, SellingPrice: -5,
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "negative price must fail, got %v", err)
}

func TestListVisibleSkipsHiddenAndSortsBySlug(t *testing.T) {
	store := newFakeProductStore()
	store.seed(models.Product{Name: "Moisturiser", Slug: "moisturiser", Visible: true})
	store.seed(models.Product{Name: "Face Serum", Slug: "face-serum", Visible: true})
	store.seed(models.Product{Name: "Secret", Slug: "secret", Visible: false})
	svc := services.NewCatalogService(store)

	out, err := svc.ListVisible(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "face-serum", out[0].Slug)
	assert.Equal(t, "moisturiser", out[1].Slug)
}

func TestGetBySlugHiddenIsNotFound(t *testing.T) {
	store := newFakeProductStore()
	store.seed(models.Product{Name: "Secret", Slug: "secret", Visible: false})
	svc := services.NewCatalogService(store)

	_, err := svc.GetBySlug(context.Background(), "secret")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound), "got %v", err)

	_, err = svc.GetBySlug(context.Background(), "never-existed")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound), "got %v", err)
}

func TestUpdateProductMergedPriceInvariant(t *testing.T) {
	store := newFakeProductStore()
	p := store.seed(models.Product{Name: "Serum", Slug: "serum", MRP: 599, SellingPrice: 399, Visible: true})
	svc := services.NewCatalogService(store)

	// Raising sellingPrice above the existing mrp must fail even though
	// the patch alone looks harmless.
	bad := 700.0
	_, err := svc.UpdateProduct(context.Background(), p.ID, services.ProductPatch{SellingPrice: &bad})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "got %v", err)

	ok := 349.0
	updated, err := svc.UpdateProduct(context.Background(), p.ID, services.ProductPatch{SellingPrice: &ok})
	require.NoError(t, err)
	assert.Equal(t, 349.0, updated.SellingPrice)
}

func TestRestock(t *testing.T) {
	store := newFakeProductStore()
	p := store.seed(models.Product{Name: "Serum", Slug: "serum", Stock: 3, Visible: true})
	svc := services.NewCatalogService(store)

	updated, err := svc.Restock(context.Background(), p.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Stock)

	_, err = svc.Restock(context.Background(), p.ID, -1)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "got %v", err)
}
