package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gadgetshub/storefront-backend/api/controllers"
	"github.com/gadgetshub/storefront-backend/api/middleware"
	cartsvc "github.com/gadgetshub/storefront-backend/internal/cart"
	"github.com/gadgetshub/storefront-backend/internal/catalog"
	checkoutsvc "github.com/gadgetshub/storefront-backend/internal/checkout"
	ordersvc "github.com/gadgetshub/storefront-backend/internal/orders"
	"github.com/gadgetshub/storefront-backend/pkg/config"
	"github.com/gadgetshub/storefront-backend/pkg/imagehost"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
	pkgredis "github.com/gadgetshub/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	prescriptionHost *imagehost.Client,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	readinessDeps := map[string]controllers.Pinger{"postgres": dbPinger}
	if redisClient != nil {
		readinessDeps["redis"] = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", controllers.MedicineList(catalogService, logg))
			r.Get("/{medicineID}", controllers.MedicineDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			if redisClient != nil {
				r.Use(middleware.Idempotency(redisClient, logg))
			}

			r.Get("/ping", controllers.PrivatePing())

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Put("/", controllers.CartReplace(cartService, logg))
				r.Route("/items", func(r chi.Router) {
					r.Post("/", controllers.CartAddItem(cartService, logg))
					r.Patch("/{productID}", controllers.CartUpdateQuantity(cartService, logg))
					r.Delete("/{productID}", controllers.CartRemoveItem(cartService, logg))
					r.Post("/{productID}/prescription", controllers.CartAttachPrescription(cartService, prescriptionHost, logg))
				})
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/quote", controllers.CheckoutQuote(checkoutService, logg))
				r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderHistory(ordersService, logg))
				r.Get("/verify", controllers.OrderVerify(ordersService, logg))
			})
		})
	})

	return r
}
