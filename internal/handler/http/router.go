package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chrisdetmering/Product-Page/internal/service"
	"github.com/chrisdetmering/Product-Page/pkg/health"
	"github.com/chrisdetmering/Product-Page/pkg/middleware"
)

// RouterConfig holds the options of NewRouter.
type RouterConfig struct {
	AssetsDir    string
	SecureCookie bool
}

// NewRouter creates a chi router with the page, API, asset and health routes.
func NewRouter(
	sessionService *service.SessionService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	if cfg.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))
	}

	page := NewPageHandler(sessionService, logger)
	api := NewAPIHandler(sessionService, logger)

	r.Group(func(r chi.Router) {
		r.Use(SessionID(cfg.SecureCookie))
		r.Use(middleware.RequestLogger(logger))

		r.Get("/", page.Show)
		r.Post("/variants/{index}", page.SelectVariant)
		r.Post("/cart/add", page.AddToCart)
		r.Post("/cart/remove", page.RemoveFromCart)
		r.Post("/tabs", page.SelectTab)
		r.Post("/reviews", page.SubmitReview)
		r.Post("/reset", page.Reset)

		r.Route("/api/v1/storefront", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/", api.GetStorefront)
			r.Delete("/", api.Reset)
			r.Put("/variant", api.SelectVariant)
			r.Post("/cart", api.AddToCart)
			r.Delete("/cart", api.RemoveFromCart)
			r.Put("/tab", api.SelectTab)
			r.Get("/reviews", api.ListReviews)
			r.Post("/reviews", api.SubmitReview)
		})
	})

	return r
}
