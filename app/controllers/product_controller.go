package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/glowmart/glowmart/app/repositories"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/response"
	"github.com/glowmart/glowmart/pkg/storage"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// List serves the public catalog: visible products only, stable order.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.ListVisible(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"items": products})
}

// GetBySlug serves one visible product.
func (c *ProductController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := c.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, p)
}

type productBody struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	MRP          float64 `json:"mrp" validate:"gte=0"`
	SellingPrice float64 `json:"sellingPrice" validate:"gte=0"`
	Description  string  `json:"description" validate:"nullable,max=5000"`
	Image        string  `json:"image" validate:"nullable,url"`
	Visible      bool    `json:"visible"`
	Category     string  `json:"category" validate:"nullable,max=100"`
	Stock        int     `json:"stock" validate:"gte=0"`
}

// Create adds a catalog entry. The slug is always derived server-side
// from the name; any client-sent slug is ignored.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if !decode(w, r, &body) {
		return
	}

	p, err := c.catalog.CreateProduct(r.Context(), services.ProductInput{
		Name:         body.Name,
		MRP:          body.MRP,
		SellingPrice: body.SellingPrice,
		Description:  body.Description,
		Image:        body.Image,
		Visible:      body.Visible,
		Category:     body.Category,
		Stock:        body.Stock,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, p)
}

// AdminList serves the back-office listing with filters and pagination.
func (c *ProductController) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.ListFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if v := q.Get("visible"); v != "" {
		b := v == "true" || v == "1"
		filter.Visible = &b
	}
	filter.Page, _ = strconv.ParseInt(q.Get("page"), 10, 64)
	filter.PerPage, _ = strconv.ParseInt(q.Get("perPage"), 10, 64)

	products, total, err := c.catalog.AdminList(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"items": products,
		"total": total,
	})
}

type productPatchBody struct {
	Name         *string  `json:"name"`
	MRP          *float64 `json:"mrp"`
	SellingPrice *float64 `json:"sellingPrice"`
	Description  *string  `json:"description"`
	Image        *string  `json:"image"`
	Visible      *bool    `json:"visible"`
	Category     *string  `json:"category"`
}

// Update applies a partial admin update.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body productPatchBody
	if !decode(w, r, &body) {
		return
	}

	p, err := c.catalog.UpdateProduct(r.Context(), id, services.ProductPatch{
		Name:         body.Name,
		MRP:          body.MRP,
		SellingPrice: body.SellingPrice,
		Description:  body.Description,
		Image:        body.Image,
		Visible:      body.Visible,
		Category:     body.Category,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, p)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.catalog.DeleteProduct(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"deleted": id.Hex()})
}

type restockBody struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// Restock sets the absolute stock count.
func (c *ProductController) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body restockBody
	if !decode(w, r, &body) {
		return
	}

	p, err := c.catalog.Restock(r.Context(), id, body.Stock)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, p)
}

// maxImageBytes caps product image uploads at 5 MB.
const maxImageBytes = 5 << 20

// UploadImage accepts a multipart "image" file, stores it on the
// configured disk under products/<slug><ext>, and points the product's
// image URL at it.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := c.catalog.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, apperr.CodeValidation, "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.Error(w, http.StatusUnprocessableEntity, apperr.CodeValidation, "unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%s%s", p.Slug, ext)
	if err := storage.PutStream(path, file); err != nil {
		response.FromError(w, apperr.Internal("could not store image", err))
		return
	}

	updated, err := c.catalog.SetImage(r.Context(), p.ID, storage.URL(path))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, updated)
}
