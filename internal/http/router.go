package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Products *ProductHandler
	Sessions *SessionHandler
	Checkout *CheckoutHandler
	Timeout  time.Duration
	Log      *zap.Logger
}

// NewRouter mounts the register API under /api/v1 and wraps it with otelhttp
// so every request gets a server span.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware(cfg.Log))
	r.Use(AccessLogMiddleware)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cfg.Products.List)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.Sessions.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.Sessions.Get)
				r.Delete("/", cfg.Sessions.Delete)

				r.Post("/items", cfg.Sessions.AddItem)
				r.Delete("/items", cfg.Sessions.Clear)
				r.Put("/items/{product_id}", cfg.Sessions.SetQuantity)
				r.Delete("/items/{product_id}", cfg.Sessions.RemoveItem)

				r.Put("/payments/{method}", cfg.Sessions.ToggleMethod)
				r.Put("/payments/{method}/text", cfg.Sessions.SetText)
				r.Post("/payments/{method}/focus", cfg.Sessions.Focus)
				r.Post("/payments/{method}/blur", cfg.Sessions.Blur)

				r.Post("/checkout", cfg.Checkout.Checkout)
			})
		})

		r.Get("/sales/{id}/receipt", cfg.Checkout.Receipt)
	})

	return otelhttp.NewHandler(r, "pos-api")
}
