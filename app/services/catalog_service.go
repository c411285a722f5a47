package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/repositories"
	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/cache"
)

// visibleProductsCacheKey caches the public listing; invalidated on every
// catalog write and by checkout stock decrements.
const visibleProductsCacheKey = "products:visible"

const visibleProductsCacheTTL = 30 * time.Second

// CatalogStore is the slice of the product repository the catalog
// service needs.
type CatalogStore interface {
	Create(ctx context.Context, p *models.Product) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListVisible(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context, f repositories.ListFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetStock(ctx context.Context, id primitive.ObjectID, stock int) (*models.Product, error)
}

// CatalogService owns catalog reads and admin catalog writes. The server
// is the sole authority on slugs: client-supplied slugs are re-derived
// from the name and uniquified here.
type CatalogService struct {
	products CatalogStore
}

func NewCatalogService(products CatalogStore) *CatalogService {
	return &CatalogService{products: products}
}

// ProductInput is a validated create request.
type ProductInput struct {
	Name         string
	MRP          float64
	SellingPrice float64
	Description  string
	Image        string
	Visible      bool
	Category     string
	Stock        int
}

// CreateProduct creates a catalog entry. Price invariants are enforced
// here in addition to request validation, since seeding and tests also
// enter through this path.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.SellingPrice < 0 || in.MRP < in.SellingPrice {
		return nil, apperr.Validation("mrp must be >= sellingPrice and sellingPrice >= 0")
	}
	if in.Stock < 0 {
		return nil, apperr.Validation("stock must be >= 0")
	}

	slug, err := s.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, apperr.Internal("could not derive slug", err)
	}

	p := &models.Product{
		Name:         in.Name,
		Slug:         slug,
		MRP:          in.MRP,
		SellingPrice: in.SellingPrice,
		Description:  in.Description,
		Image:        in.Image,
		Visible:      in.Visible,
		Category:     in.Category,
		Stock:        in.Stock,
	}

	id, err := s.products.Create(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.AlreadyExists("product with this name already exists")
		}
		return nil, apperr.Internal("could not create product", err)
	}
	p.ID = id

	s.invalidateListing(ctx)
	return p, nil
}

// ListVisible returns the public, stable-ordered catalog, served from
// cache when warm.
func (s *CatalogService) ListVisible(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(ctx, visibleProductsCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.products.ListVisible(ctx)
	if err != nil {
		return nil, apperr.Internal("could not list products", err)
	}

	if err := cache.Set(ctx, visibleProductsCacheKey, products, visibleProductsCacheTTL); err != nil {
		// Cache trouble never fails the read.
		_ = err
	}
	return products, nil
}

// GetBySlug returns a visible product. Hidden products are NOT_FOUND for
// the public surface, consistent with the listing.
func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.products.FindBySlug(ctx, slug)
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

// GetByID loads a product for the back office, hidden ones included.
func (s *CatalogService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("could not load product", err)
	}
	return p, nil
}

// AdminList serves the back-office listing: all products, filtered and
// paginated, hidden ones included.
func (s *CatalogService) AdminList(ctx context.Context, f repositories.ListFilter) ([]models.Product, int64, error) {
	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Internal("could not list products", err)
	}
	return products, total, nil
}

// ProductPatch carries the admin partial update. Nil fields are left
// untouched.
type ProductPatch struct {
	Name         *string
	MRP          *float64
	SellingPrice *float64
	Description  *string
	Image        *string
	Visible      *bool
	Category     *string
}

// UpdateProduct applies a partial update. When the name changes the slug
// is re-derived, old links go stale by design. Price invariants are
// checked against the merged result.
func (s *CatalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, patch ProductPatch) (*models.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("could not load product", err)
	}

	mrp, selling := current.MRP, current.SellingPrice
	if patch.MRP != nil {
		mrp = *patch.MRP
	}
	if patch.SellingPrice != nil {
		selling = *patch.SellingPrice
	}
	if selling < 0 || mrp < selling {
		return nil, apperr.Validation("mrp must be >= sellingPrice and sellingPrice >= 0")
	}

	set := bson.M{}
	if patch.Name != nil && *patch.Name != current.Name {
		slug, err := s.uniqueSlug(ctx, *patch.Name)
		if err != nil {
			return nil, apperr.Internal("could not derive slug", err)
		}
		set["name"] = *patch.Name
		set["slug"] = slug
	}
	if patch.MRP != nil {
		set["mrp"] = mrp
	}
	if patch.SellingPrice != nil {
		set["sellingPrice"] = selling
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Visible != nil {
		set["visible"] = *patch.Visible
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	if len(set) == 0 {
		return current, nil
	}

	updated, err := s.products.Update(ctx, id, set)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.AlreadyExists("product with this name already exists")
		}
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("could not update product", err)
	}

	s.invalidateListing(ctx)
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("product not found")
		}
		return apperr.Internal("could not delete product", err)
	}
	s.invalidateListing(ctx)
	return nil
}

// Restock sets the absolute stock count.
func (s *CatalogService) Restock(ctx context.Context, id primitive.ObjectID, stock int) (*models.Product, error) {
	if stock < 0 {
		return nil, apperr.Validation("stock must be >= 0")
	}
	p, err := s.products.SetStock(ctx, id, stock)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("could not restock product", err)
	}
	s.invalidateListing(ctx)
	return p, nil
}

// SetImage stores the uploaded image URL on the product.
func (s *CatalogService) SetImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Product, error) {
	p, err := s.products.Update(ctx, id, bson.M{"image": url})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("could not set product image", err)
	}
	s.invalidateListing(ctx)
	return p, nil
}

func (s *CatalogService) invalidateListing(ctx context.Context) {
	_ = cache.Del(ctx, visibleProductsCacheKey)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and collapses runs of non-alphanumerics into
// single hyphens: "Face Serum 2.0" -> "face-serum-2-0".
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug derives the slug from name and suffixes -2, -3, ... until it
// is free. The probe is advisory; the unique index settles races.
func (s *CatalogService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "product"
	}

	slug := base
	for n := 2; ; n++ {
		taken, err := s.products.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
