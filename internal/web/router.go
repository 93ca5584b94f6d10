// internal/web/router.go
//
// HTTP router for the forms gateway.
//
// Context
// -------
// The router wires the fixed endpoint set: a liveness text on GET /, the
// two submission endpoints, and CORS preflight for the deployed site
// origin.  CORS headers ride on every response; the allow-list comes from
// configuration, never from the request.

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/virtualscienceforum/forms/internal/forms"
	"github.com/virtualscienceforum/forms/internal/middleware"
	"github.com/virtualscienceforum/forms/internal/requestinfo"
)

// NewRouter builds the gateway handler around one Pipeline.
func NewRouter(p *forms.Pipeline, allowedOrigins []string) http.Handler {
	h := &handlers{pipeline: p}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	r.Get("/", h.live)
	r.Post("/mailinglist", h.signup)
	r.Post("/register", h.register)

	return r
}
