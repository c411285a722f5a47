package controllers

import (
	"net/http"

	"github.com/glowmart/glowmart/pkg/response"
)

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "UP"})
}
