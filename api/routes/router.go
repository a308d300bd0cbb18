package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velomarket/velomarket-backend/api/controllers"
	"github.com/velomarket/velomarket-backend/api/middleware"
	authsvc "github.com/velomarket/velomarket-backend/internal/auth"
	"github.com/velomarket/velomarket-backend/internal/catalog"
	checkoutsvc "github.com/velomarket/velomarket-backend/internal/checkout"
	contactsvc "github.com/velomarket/velomarket-backend/internal/contact"
	ordersvc "github.com/velomarket/velomarket-backend/internal/orders"
	"github.com/velomarket/velomarket-backend/pkg/auth/session"
	"github.com/velomarket/velomarket-backend/pkg/config"
	"github.com/velomarket/velomarket-backend/pkg/logger"
	"github.com/velomarket/velomarket-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	sessionVerifier session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	catalogService catalog.Service,
	authService authsvc.Service,
	registerService authsvc.RegisterService,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	contactService contactsvc.Service,
	cartDeps controllers.CartDeps,
	profileDeps controllers.ProfileDeps,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.NamedPinger{Name: "database", Pinger: dbPinger},
			controllers.NamedPinger{Name: "redis", Pinger: redisPinger},
		))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionVerifier, logg)).
			Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
		r.Get("/categories/{slug}", controllers.CatalogCategory(catalogService, logg))
		r.Get("/latest", controllers.CatalogLatest(catalogService, logg))
		r.Get("/products", controllers.CatalogProducts(catalogService, logg))
		r.Get("/products/{slug}", controllers.CatalogProduct(catalogService, logg))
	})

	// cart endpoints serve both logged-in customers and anonymous guests
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, sessionVerifier, logg))
		r.Use(middleware.CartSession())
		r.Get("/", controllers.CartFetch(cartDeps, logg))
		r.Post("/items", controllers.CartAdd(cartDeps, logg))
		r.Patch("/items", controllers.CartQuantity(cartDeps, logg))
		r.Delete("/items/{productId}", controllers.CartRemove(cartDeps, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionVerifier, logg))
		r.Use(middleware.CartSession())
		r.Post("/", controllers.CheckoutPlaceOrder(checkoutService, cartDeps, logg))
	})

	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionVerifier, logg))
		r.Get("/", controllers.ProfileFetch(profileDeps, logg))
		r.Get("/orders", controllers.ProfileOrders(profileDeps, logg))
		r.Patch("/", controllers.ProfileUpdate(profileDeps, logg))
	})

	r.Post("/api/v1/contact", controllers.ContactSubmit(contactService, logg))

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionVerifier, logg))
		r.Use(middleware.RequireStaff(logg))
		r.Route("/catalog", func(r chi.Router) {
			r.Post("/categories", controllers.AdminCreateCategory(catalogService, logg))
			r.Post("/products", controllers.AdminCreateProduct(catalogService, logg))
			r.Post("/products/{productId}/images/{slot}",
				controllers.AdminUploadProductImage(catalogService, cfg.Media.MaxUploadMB, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(ordersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderStatus(ordersService, logg))
		})
	})

	return r
}
