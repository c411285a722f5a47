package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/response"
)

type CommentController struct {
	comments *services.CommentService
	catalog  *services.CatalogService
}

func NewCommentController(comments *services.CommentService, catalog *services.CatalogService) *CommentController {
	return &CommentController{comments: comments, catalog: catalog}
}

// List returns one page of a product's visible comments, oldest update
// first. Query params: page (default 1), limit (default 10, max 50).
func (c *CommentController) List(w http.ResponseWriter, r *http.Request) {
	p, err := c.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	comments, total, err := c.comments.List(r.Context(), p.ID, page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"items": comments,
		"total": total,
	})
}

type commentBody struct {
	Text   string `json:"text" validate:"required,min=1,max=2000"`
	Rating int    `json:"rating" validate:"nullable,gte=1,lte=5"`
}

// Create upserts the caller's comment on a product: posting twice keeps
// one comment with the latest text.
func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	p, err := c.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	var body commentBody
	if !decode(w, r, &body) {
		return
	}

	comment, err := c.comments.Upsert(r.Context(), p.ID, userID, body.Text, body.Rating)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, comment)
}

type moderateBody struct {
	Visible *bool   `json:"visible"`
	Text    *string `json:"text"`
}

// Moderate lets an admin hide, unhide, or redact a comment.
func (c *CommentController) Moderate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body moderateBody
	if !decode(w, r, &body) {
		return
	}

	comment, err := c.comments.Moderate(r.Context(), id, services.CommentPatch{
		Visible: body.Visible,
		Text:    body.Text,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, comment)
}

// Delete removes a comment outright.
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := c.comments.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"deleted": id.Hex()})
}
