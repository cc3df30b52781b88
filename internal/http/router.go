package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/facturacion/internal/http/cancelacion"
	"github.com/MrJamesThe3rd/facturacion/internal/http/pac"
)

func newRouter(corsOrigins []string) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	return router
}

// NewPAC builds the router of the PAC Service.
func NewPAC(pacV1 *pac.Handler, corsOrigins []string) http.Handler {
	router := newRouter(corsOrigins)

	router.Get("/health", health)

	router.Route("/api/pac", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		pacV1.Routes(r)
	})

	return router
}

// NewInvoices builds the router of the Invoice Service.
func NewInvoices(cancelacionV1 *cancelacion.Handler, corsOrigins []string) http.Handler {
	router := newRouter(corsOrigins)

	router.Route("/api/consulta-facturas", cancelacionV1.Routes)

	return router
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
