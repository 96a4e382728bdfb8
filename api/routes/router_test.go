package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/auth"
	contentsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/content"
	couponsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/coupons"
	ordersvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/orders"
	otpsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/otp"
	productsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/products"
	shippingsvc "github.com/ataullahmesbah/sooqra-one-sub003/internal/shipping"
	pkgAuth "github.com/ataullahmesbah/sooqra-one-sub003/pkg/auth"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/config"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/logger"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/pagination"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/redis"
	"github.com/shopspring/decimal"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, authsvc.RegisterRequest) (*authsvc.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	panic("unimplemented")
}

type stubOTPService struct{}

func (stubOTPService) RequestCode(context.Context, otpsvc.RequestInput) error {
	return nil
}

func (stubOTPService) VerifyCode(context.Context, otpsvc.VerifyInput) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(context.Context, productsvc.CreateProductRequest) (*productsvc.ProductResponse, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(context.Context, uuid.UUID, productsvc.UpdateProductRequest) (*productsvc.ProductResponse, error) {
	panic("unimplemented")
}

func (stubProductService) DeleteProduct(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubProductService) GetProductBySlug(context.Context, string) (*productsvc.ProductResponse, error) {
	panic("unimplemented")
}

func (stubProductService) ListProducts(context.Context) ([]productsvc.ProductResponse, error) {
	return []productsvc.ProductResponse{}, nil
}

type stubOrderService struct{}

func (stubOrderService) CreateOrder(context.Context, *uuid.UUID, ordersvc.CreateOrderRequest) (*ordersvc.OrderResponse, error) {
	panic("unimplemented")
}

func (stubOrderService) AdminAction(context.Context, string, ordersvc.AdminActionRequest) (*ordersvc.OrderResponse, error) {
	panic("unimplemented")
}

func (stubOrderService) GetOrder(context.Context, string) (*ordersvc.OrderResponse, error) {
	return &ordersvc.OrderResponse{}, nil
}

func (stubOrderService) ListOrders(context.Context, pagination.Params, ordersvc.ListFilters) (*ordersvc.OrderListResponse, error) {
	return &ordersvc.OrderListResponse{}, nil
}

type stubCouponService struct{}

func (stubCouponService) Validate(context.Context, couponsvc.ValidateCouponRequest) (*couponsvc.ValidationResult, error) {
	panic("unimplemented")
}

func (stubCouponService) Redeem(context.Context, *gorm.DB, couponsvc.RedeemInput) (*couponsvc.Redemption, error) {
	panic("unimplemented")
}

func (stubCouponService) CreateCoupon(context.Context, couponsvc.CreateCouponRequest) (*couponsvc.CouponResponse, error) {
	panic("unimplemented")
}

func (stubCouponService) UpdateCoupon(context.Context, uuid.UUID, couponsvc.UpdateCouponRequest) (*couponsvc.CouponResponse, error) {
	panic("unimplemented")
}

func (stubCouponService) DeleteCoupon(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubCouponService) ListCoupons(context.Context) ([]couponsvc.CouponResponse, error) {
	return []couponsvc.CouponResponse{}, nil
}

func (stubCouponService) GetGlobalDiscount(context.Context) (*couponsvc.GlobalDiscountResponse, error) {
	panic("unimplemented")
}

func (stubCouponService) SetGlobalDiscount(context.Context, couponsvc.GlobalDiscountRequest) (*couponsvc.GlobalDiscountResponse, error) {
	panic("unimplemented")
}

type stubShippingService struct{}

func (stubShippingService) ListRates(context.Context) ([]shippingsvc.RateResponse, error) {
	return []shippingsvc.RateResponse{}, nil
}

func (stubShippingService) AmountFor(context.Context, enums.DeliveryArea) (decimal.Decimal, error) {
	panic("unimplemented")
}

func (stubShippingService) UpsertRate(context.Context, shippingsvc.UpsertRateRequest) (*shippingsvc.RateResponse, error) {
	panic("unimplemented")
}

type stubContentService struct{}

func (stubContentService) ListBanners(context.Context, bool) ([]contentsvc.BannerResponse, error) {
	return []contentsvc.BannerResponse{}, nil
}

func (stubContentService) CreateBanner(context.Context, contentsvc.BannerRequest) (*contentsvc.BannerResponse, error) {
	panic("unimplemented")
}

func (stubContentService) UpdateBanner(context.Context, uuid.UUID, contentsvc.BannerRequest) (*contentsvc.BannerResponse, error) {
	panic("unimplemented")
}

func (stubContentService) DeleteBanner(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubContentService) ListNavItems(context.Context, bool) ([]contentsvc.NavItemResponse, error) {
	return []contentsvc.NavItemResponse{}, nil
}

func (stubContentService) CreateNavItem(context.Context, contentsvc.NavItemRequest) (*contentsvc.NavItemResponse, error) {
	panic("unimplemented")
}

func (stubContentService) UpdateNavItem(context.Context, uuid.UUID, contentsvc.NavItemRequest) (*contentsvc.NavItemResponse, error) {
	panic("unimplemented")
}

func (stubContentService) DeleteNavItem(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "test-secret-at-least-32-characters!!",
			Issuer:            "sooqra-test",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil, // http metrics
		nil, // metrics handler
		Services{
			Auth:     stubAuthService{},
			OTP:      stubOTPService{},
			Products: stubProductService{},
			Orders:   stubOrderService{},
			Coupons:  stubCouponService{},
			Shipping: stubShippingService{},
			Content:  stubContentService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router-test@example.com",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestPublicCatalogIsOpen(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public catalog got %d", resp.Code)
	}
}

func TestOrderLookupIsOpen(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/SO-ABC123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for order lookup got %d", resp.Code)
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/coupons", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/coupons", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/coupons", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminOrderListAcceptsStatusFilter(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?status=pending", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for status filter got %d", resp.Code)
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?status=bogus", nil)
	bad.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, bad)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus status got %d", resp.Code)
	}
}
