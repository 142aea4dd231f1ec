package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shinnycodez/Hiba/internal/service"
	"github.com/shinnycodez/Hiba/pkg/health"
	"github.com/shinnycodez/Hiba/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	productService *service.ProductService,
	cartService *service.CartService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics())
	r.Use(middleware.RequestLogger(logger))
	r.Use(CORS)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(catalogService, logger)
	productHandler := NewProductHandler(productService, logger)
	cartHandler := NewCartHandler(cartService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", catalogHandler.Browse)
		r.Get("/products/{id}", productHandler.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(SessionIDFromHeader)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)

			r.Get("/buy-now", cartHandler.GetBuyNow)
			r.Post("/buy-now", cartHandler.BuyNow)
			r.Delete("/buy-now", cartHandler.ClearBuyNow)
		})
	})

	return r
}
