package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pasarseni/pasarseni-backend/api/controllers"
	"github.com/pasarseni/pasarseni-backend/api/middleware"
	cartsvc "github.com/pasarseni/pasarseni-backend/internal/cart"
	"github.com/pasarseni/pasarseni-backend/internal/catalog"
	checkoutsvc "github.com/pasarseni/pasarseni-backend/internal/checkout"
	"github.com/pasarseni/pasarseni-backend/pkg/config"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Carts    cartsvc.Service
	Checkout checkoutsvc.Service
	Listings catalog.Repository
	Health   map[string]controllers.Pinger
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Health))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pricing/guidelines", controllers.PricingGuidelines())

		// Cart and checkout work for guests with a session header; a
		// bearer token upgrades the owner to the user id.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.CartOwner(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Carts, deps.Checkout, logg))
				r.Delete("/", controllers.CartClear(deps.Carts, deps.Checkout, logg))
				r.Post("/items", controllers.CartAddItem(deps.Carts, deps.Checkout, deps.Listings, logg))
				r.Get("/items/{itemID}", controllers.CartContains(deps.Carts, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateQuantity(deps.Carts, deps.Checkout, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.Carts, deps.Checkout, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutStatus(deps.Checkout, logg))
				r.Post("/", controllers.CheckoutSubmit(deps.Checkout, logg))
			})
		})
	})

	return r
}
