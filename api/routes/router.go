package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ataullahmesbah/sooqra-one-sub003/api/controllers"
	"github.com/ataullahmesbah/sooqra-one-sub003/api/middleware"
	authsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/auth"
	contentsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/content"
	couponsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/coupons"
	ordersvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/orders"
	otpsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/otp"
	productsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/products"
	shippingsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/shipping"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/config"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/logger"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/metrics"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth     authsvc.Service
	OTP      otpsvc.Service
	Products productsvc.Service
	Orders   ordersvc.Service
	Coupons  couponsvc.Service
	Shipping shippingsvc.Service
	Content  contentsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	// OTP requests reuse the register limits; the service enforces its own
	// per-phone window on top.
	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/{slug}", controllers.ProductBySlug(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.OptionalAuth(cfg.JWT, logg)).Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/{orderRef}", controllers.OrderByRef(svcs.Orders, logg))
		})

		r.Post("/coupons/validate", controllers.ValidateCoupon(svcs.Coupons, logg))
		r.Get("/shipping-rates", controllers.ListShippingRates(svcs.Shipping, logg))
		r.Get("/banners", controllers.ListBanners(svcs.Content, logg, false))
		r.Get("/nav", controllers.ListNavItems(svcs.Content, logg, false))

		r.Route("/otp", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/request", controllers.OTPRequest(svcs.OTP, logg))
			r.Post("/verify", controllers.OTPVerify(svcs.OTP, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/{orderRef}", controllers.AdminOrderDetail(svcs.Orders, logg))
			r.Post("/{orderRef}/action", controllers.AdminOrderAction(svcs.Orders, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminListCoupons(svcs.Coupons, logg))
			r.Post("/", controllers.AdminCreateCoupon(svcs.Coupons, logg))
			r.Patch("/{couponId}", controllers.AdminUpdateCoupon(svcs.Coupons, logg))
			r.Delete("/{couponId}", controllers.AdminDeleteCoupon(svcs.Coupons, logg))
		})

		r.Route("/global-discount", func(r chi.Router) {
			r.Get("/", controllers.AdminGetGlobalDiscount(svcs.Coupons, logg))
			r.Put("/", controllers.AdminSetGlobalDiscount(svcs.Coupons, logg))
		})

		r.Put("/shipping-rates", controllers.AdminUpsertShippingRate(svcs.Shipping, logg))

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.ListBanners(svcs.Content, logg, true))
			r.Post("/", controllers.AdminCreateBanner(svcs.Content, logg))
			r.Put("/{bannerId}", controllers.AdminUpdateBanner(svcs.Content, logg))
			r.Delete("/{bannerId}", controllers.AdminDeleteBanner(svcs.Content, logg))
		})

		r.Route("/nav", func(r chi.Router) {
			r.Get("/", controllers.ListNavItems(svcs.Content, logg, true))
			r.Post("/", controllers.AdminCreateNavItem(svcs.Content, logg))
			r.Put("/{navItemId}", controllers.AdminUpdateNavItem(svcs.Content, logg))
			r.Delete("/{navItemId}", controllers.AdminDeleteNavItem(svcs.Content, logg))
		})
	})

	return r
}
