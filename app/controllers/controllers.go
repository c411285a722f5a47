// Package controllers translates HTTP requests into service calls and
// service results into the response envelope. No domain logic lives here.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glowmart/glowmart/pkg/apperr"
	"github.com/glowmart/glowmart/pkg/bind"
	"github.com/glowmart/glowmart/pkg/middleware"
	"github.com/glowmart/glowmart/pkg/response"
)

// decode binds and validates the JSON body. It writes the error response
// itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.Error(w, http.StatusBadRequest, apperr.CodeValidation, "invalid JSON body")
		return false
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

// callerID returns the authenticated principal's id as an ObjectID. The
// auth middleware guarantees a principal is present on protected routes.
func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	hex, ok := middleware.PrincipalIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		response.Unauthorized(w, "invalid principal")
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses the {param} URL segment as an ObjectID.
func pathID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		response.Error(w, http.StatusBadRequest, apperr.CodeValidation, "invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}
