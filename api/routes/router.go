package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bazarly/storefront-backend/api/controllers"
	cartcontrollers "github.com/bazarly/storefront-backend/api/controllers/cart"
	"github.com/bazarly/storefront-backend/api/middleware"
	"github.com/bazarly/storefront-backend/internal/cart"
	"github.com/bazarly/storefront-backend/internal/catalog"
	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/bazarly/storefront-backend/pkg/logger"
	"github.com/bazarly/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	catalogClient *catalog.Client,
	cartService cart.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisPinger interface{ Ping(context.Context) error }
	if redisClient != nil {
		redisPinger = redisClient
	}

	var browser interface {
		ListProducts(ctx context.Context, page, perPage int) ([]catalog.Product, error)
		GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	}
	if catalogClient != nil {
		browser = catalogClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(browser, logg))
			r.Get("/{productId}", controllers.CatalogDetail(browser, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Identity(cfg.JWT, logg))
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Get("/pending", cartcontrollers.CartPending(cartService, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(cartService, logg))
			r.Post("/checkout", cartcontrollers.CheckoutBegin(cartService, logg))
		})
	})

	return r
}
