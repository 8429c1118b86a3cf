package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veranievas/floralia-backend/api/controllers"
	webhookcontrollers "github.com/veranievas/floralia-backend/api/controllers/webhooks"
	"github.com/veranievas/floralia-backend/api/middleware"
	catalogsvc "github.com/veranievas/floralia-backend/internal/catalog"
	checkoutsvc "github.com/veranievas/floralia-backend/internal/checkout"
	couponssvc "github.com/veranievas/floralia-backend/internal/coupons"
	favoritessvc "github.com/veranievas/floralia-backend/internal/favorites"
	orderssvc "github.com/veranievas/floralia-backend/internal/orders"
	paymentssvc "github.com/veranievas/floralia-backend/internal/payments"
	settingssvc "github.com/veranievas/floralia-backend/internal/settings"
	"github.com/veranievas/floralia-backend/pkg/config"
	"github.com/veranievas/floralia-backend/pkg/enums"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/mercadopago"
	"github.com/veranievas/floralia-backend/pkg/metrics"
	"github.com/veranievas/floralia-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Catalog   catalogsvc.Service
	Checkout  checkoutsvc.Service
	Payments  paymentssvc.Service
	Coupons   couponssvc.Service
	Settings  settingssvc.Service
	Favorites favoritessvc.Service
	Orders    orderssvc.Service
	Webhook   webhookcontrollers.MercadoPagoService
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	redisClient *redis.Client,
	mpClient *mercadopago.Client,
	probes map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	couponPolicy := middleware.NewRateLimitPolicy(
		"coupon_validate",
		cfg.RateLimit.CouponWindow,
		cfg.RateLimit.CouponIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, probes))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		// A typed nil would defeat the handler's nil check.
		if mpClient != nil {
			r.Post("/mercadopago", webhookcontrollers.MercadoPago(svcs.Webhook, mpClient, logg))
			return
		}
		r.Post("/mercadopago", webhookcontrollers.MercadoPago(svcs.Webhook, nil, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Storefront reads, no identity required.
		r.Group(func(r chi.Router) {
			r.Get("/products", controllers.ListProducts(svcs.Catalog, logg))
			r.Get("/products/{productId}", controllers.GetProduct(svcs.Catalog, logg))
			r.Get("/orders/{reference}", controllers.GetOrder(svcs.Orders, logg))
		})

		// Checkout flow, guest friendly but idempotency protected.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
			r.Post("/checkout/process", controllers.ProcessPayment(svcs.Payments, logg))
			r.With(middleware.RateLimit(couponPolicy, redisClient, logg)).
				Post("/coupons", controllers.ValidateCoupon(svcs.Coupons, logg))
		})

		// Account surface, identity required.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/coupons", controllers.GetCoupon(svcs.Coupons, svcs.Settings, logg))
			r.Get("/favorites", controllers.ListFavorites(svcs.Favorites, logg))
			r.Post("/favorites", controllers.AddFavorite(svcs.Favorites, logg))
			r.Delete("/favorites/{productId}", controllers.RemoveFavorite(svcs.Favorites, logg))
		})

		// Admin fulfillment board.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Get("/orders", controllers.AdminListOrders(svcs.Orders, logg))
			r.Post("/orders/{reference}/advance", controllers.AdminAdvanceOrder(svcs.Orders, logg))
			r.Post("/orders/{reference}/photos", controllers.AdminAttachPhotos(svcs.Orders, logg))
			r.Put("/settings/tax-rate", controllers.AdminSetTaxRate(svcs.Settings, logg))
		})
	})

	return r
}
