package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasferri/distribuidora-backend/api/controllers"
	webhookcontrollers "github.com/lucasferri/distribuidora-backend/api/controllers/webhooks"
	"github.com/lucasferri/distribuidora-backend/api/middleware"
	"github.com/lucasferri/distribuidora-backend/internal/analytics"
	"github.com/lucasferri/distribuidora-backend/internal/auth"
	"github.com/lucasferri/distribuidora-backend/internal/banners"
	"github.com/lucasferri/distribuidora-backend/internal/bans"
	"github.com/lucasferri/distribuidora-backend/internal/catalog"
	"github.com/lucasferri/distribuidora-backend/internal/coupons"
	"github.com/lucasferri/distribuidora-backend/internal/discounts"
	"github.com/lucasferri/distribuidora-backend/internal/orders"
	"github.com/lucasferri/distribuidora-backend/internal/settings"
	"github.com/lucasferri/distribuidora-backend/internal/tracking"
	paglevewebhook "github.com/lucasferri/distribuidora-backend/internal/webhooks/pagleve"
	"github.com/lucasferri/distribuidora-backend/pkg/config"
	"github.com/lucasferri/distribuidora-backend/pkg/db"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
	"github.com/lucasferri/distribuidora-backend/pkg/pagleve"
	"github.com/lucasferri/distribuidora-backend/pkg/redis"
)

// Services groups everything the router hands to controllers.
type Services struct {
	Orders    orders.Service
	Coupons   coupons.Service
	Discounts discounts.Service
	Tracking  tracking.Service
	Catalog   catalog.Service
	Banners   banners.Service
	Settings  settings.Service
	Bans      bans.Service
	Analytics analytics.Service
	Auth      auth.Service
	Webhook   paglevewebhook.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	pagleveClient *pagleve.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.ClientIP(logg),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// The ban gate covers every storefront and admin surface. Ban management
	// itself stays outside it so an admin can always undo a lockout.
	banGate := middleware.IPBan(svcs.Bans, logg)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(banGate)

			r.Post("/orders", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/orders/{orderId}", controllers.GetOrder(svcs.Orders, logg))
			r.Post("/coupons/validate", controllers.ValidateCoupon(svcs.Coupons, logg))
			r.Post("/cart-tracking", controllers.TrackCart(svcs.Tracking, logg))
			r.Get("/dynamic-discounts/{productId}", controllers.DiscountProgress(svcs.Discounts, logg))
			r.Get("/products", controllers.PublicProducts(svcs.Catalog, logg))
			r.Get("/categories", controllers.PublicCategories(svcs.Catalog, logg))
			r.Get("/banners", controllers.PublicBanners(svcs.Banners, logg))

			r.Post("/webhook/pagleve", webhookcontrollers.PagLeveWebhook(svcs.Webhook, logg))

			r.Post("/auth/login", controllers.AdminLogin(svcs.Auth, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(banGate)

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
					r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
					r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
					r.Post("/{orderId}/pix", controllers.AdminAttachPix(svcs.Orders, logg))
					r.Delete("/{orderId}", controllers.AdminDeleteOrder(svcs.Orders, logg))
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminListProducts(svcs.Catalog, logg))
					r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
					r.Get("/{productId}", controllers.AdminGetProduct(svcs.Catalog, logg))
					r.Put("/{productId}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
					r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", controllers.AdminListCategories(svcs.Catalog, logg))
					r.Post("/", controllers.AdminCreateCategory(svcs.Catalog, logg))
					r.Put("/{categoryId}", controllers.AdminUpdateCategory(svcs.Catalog, logg))
					r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Catalog, logg))
				})

				r.Route("/banners", func(r chi.Router) {
					r.Get("/", controllers.AdminListBanners(svcs.Banners, logg))
					r.Post("/", controllers.AdminCreateBanner(svcs.Banners, logg))
					r.Put("/{bannerId}", controllers.AdminUpdateBanner(svcs.Banners, logg))
					r.Delete("/{bannerId}", controllers.AdminDeleteBanner(svcs.Banners, logg))
				})

				r.Route("/coupons", func(r chi.Router) {
					r.Get("/", controllers.AdminListCoupons(svcs.Coupons, logg))
					r.Post("/", controllers.AdminCreateCoupon(svcs.Coupons, logg))
					r.Put("/{couponId}", controllers.AdminUpdateCoupon(svcs.Coupons, logg))
					r.Delete("/{couponId}", controllers.AdminDeleteCoupon(svcs.Coupons, logg))
				})

				r.Route("/dynamic-discounts", func(r chi.Router) {
					r.Get("/", controllers.AdminListDiscounts(svcs.Discounts, logg))
					r.Post("/", controllers.AdminCreateDiscount(svcs.Discounts, logg))
					r.Put("/{discountId}", controllers.AdminUpdateDiscount(svcs.Discounts, logg))
					r.Delete("/{discountId}", controllers.AdminDeleteDiscount(svcs.Discounts, logg))
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", controllers.AdminGetSettings(svcs.Settings, logg))
					r.Put("/", controllers.AdminPutSettings(svcs.Settings, logg))
				})

				r.Route("/cart-analytics", func(r chi.Router) {
					r.Get("/", controllers.AdminCartAnalytics(svcs.Analytics, logg))
					r.Delete("/", controllers.AdminPurgeCartEvents(svcs.Tracking, logg))
				})

				r.Post("/test-pagleve", controllers.TestPagLeve(pagleveClient, logg))
			})

			// Ban management sits outside the gate so a banned admin address
			// can still be unbanned.
			r.Route("/ip-bans", func(r chi.Router) {
				r.Get("/", controllers.AdminListBans(svcs.Bans, logg))
				r.Post("/", controllers.AdminCreateBan(svcs.Bans, logg))
				r.Delete("/{banId}", controllers.AdminDeactivateBan(svcs.Bans, logg))
			})
		})
	})

	return r
}
