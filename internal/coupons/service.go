package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
)

// Service exposes coupon validation, redemption, and admin management.
type Service interface {
	Validate(ctx context.Context, input ValidateCouponRequest) (*ValidationResult, error)
	Redeem(ctx context.Context, tx *gorm.DB, input RedeemInput) (*Redemption, error)
	CreateCoupon(ctx context.Context, input CreateCouponRequest) (*CouponResponse, error)
	UpdateCoupon(ctx context.Context, couponID uuid.UUID, input UpdateCouponRequest) (*CouponResponse, error)
	DeleteCoupon(ctx context.Context, couponID uuid.UUID) error
	ListCoupons(ctx context.Context) ([]CouponResponse, error)
	GetGlobalDiscount(ctx context.Context) (*GlobalDiscountResponse, error)
	SetGlobalDiscount(ctx context.Context, input GlobalDiscountRequest) (*GlobalDiscountResponse, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a coupon service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Validate checks a code against the cart without consuming it. Product-scoped
// coupons take precedence over the global discount when both match the code.
func (s *service) Validate(ctx context.Context, input ValidateCouponRequest) (*ValidationResult, error) {
	code := normalizeCode(input.Code)

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load coupon")
	}
	if coupon != nil {
		if reason := s.productCouponBlocked(ctx, coupon, input.ProductIDs, input.Email, input.Phone); reason != "" {
			return &ValidationResult{Valid: false, Message: reason}, nil
		}
		percent := coupon.DiscountPercent
		return &ValidationResult{
			Valid:              true,
			Type:               KindProduct,
			DiscountPercentage: &percent,
		}, nil
	}

	global, err := s.repo.GetGlobalDiscount(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Valid: false, Message: "invalid coupon code"}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load global discount")
	}
	if normalizeCode(global.Code) != code {
		return &ValidationResult{Valid: false, Message: "invalid coupon code"}, nil
	}
	if s.now().After(global.ExpiresAt) {
		return &ValidationResult{Valid: false, Message: "coupon has expired"}, nil
	}
	if input.Subtotal.LessThan(global.MinCartTotal) {
		return &ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("cart total must be at least %s", global.MinCartTotal.StringFixed(2)),
		}, nil
	}
	amount := global.DiscountAmount
	return &ValidationResult{
		Valid:          true,
		Type:           KindGlobal,
		DiscountAmount: &amount,
	}, nil
}

// Redeem applies a code to an order being created. It runs inside the caller's
// transaction so the one-time usage receipt commits or rolls back with the
// order row itself.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, input RedeemInput) (*Redemption, error) {
	code := normalizeCode(input.Code)
	repo := s.repo.WithTx(tx)

	coupon, err := repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load coupon")
	}
	if coupon != nil {
		productIDs := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		if reason := s.productCouponBlockedTx(ctx, repo, coupon, productIDs, input.Email, input.Phone); reason != "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, reason)
		}

		discount := decimal.Zero
		for _, item := range input.Items {
			if item.ProductID != coupon.ProductID {
				continue
			}
			line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			discount = discount.Add(line.Mul(coupon.DiscountPercent).Div(decimal.NewFromInt(100)))
		}
		discount = discount.Round(2)

		if coupon.UseType == enums.CouponUseTypeOneTime {
			usage := &models.UsedCoupon{
				CouponCode: coupon.Code,
				Email:      input.Email,
				Phone:      input.Phone,
				OrderID:    input.OrderRef,
				UserID:     input.UserID,
			}
			if err := repo.CreateUsage(ctx, usage); err != nil {
				if db.IsUniqueViolation(err) {
					return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon already used")
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: write coupon usage")
			}
		}
		return &Redemption{Code: coupon.Code, Kind: KindProduct, Discount: discount}, nil
	}

	global, err := repo.GetGlobalDiscount(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load global discount")
	}
	if normalizeCode(global.Code) != code {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code")
	}
	if s.now().After(global.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}
	if input.Subtotal.LessThan(global.MinCartTotal) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cart total must be at least %s", global.MinCartTotal.StringFixed(2)))
	}
	return &Redemption{Code: code, Kind: KindGlobal, Discount: global.DiscountAmount}, nil
}

// productCouponBlocked returns a human-readable reason when the coupon cannot
// apply, or "" when it can.
func (s *service) productCouponBlocked(ctx context.Context, coupon *models.Coupon, productIDs []uuid.UUID, email, phone string) string {
	return s.productCouponBlockedTx(ctx, s.repo, coupon, productIDs, email, phone)
}

func (s *service) productCouponBlockedTx(ctx context.Context, repo *Repository, coupon *models.Coupon, productIDs []uuid.UUID, email, phone string) string {
	if !coupon.Active {
		return "coupon is not active"
	}
	if s.now().After(coupon.ExpiresAt) {
		return "coupon has expired"
	}
	found := false
	for _, id := range productIDs {
		if id == coupon.ProductID {
			found = true
			break
		}
	}
	if !found {
		return "coupon does not apply to any product in the cart"
	}
	if coupon.UseType == enums.CouponUseTypeOneTime {
		used, err := repo.HasUsage(ctx, coupon.Code, email, phone)
		if err != nil {
			return "unable to verify coupon usage"
		}
		if used {
			return "coupon already used"
		}
	}
	return ""
}

// CreateCoupon adds a product-scoped coupon.
func (s *service) CreateCoupon(ctx context.Context, input CreateCouponRequest) (*CouponResponse, error) {
	useType, err := enums.ParseCouponUseType(input.UseType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.DiscountPercent.LessThanOrEqual(decimal.Zero) || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
	}

	coupon := &models.Coupon{
		Code:            normalizeCode(input.Code),
		ProductID:       input.ProductID,
		DiscountPercent: input.DiscountPercent,
		UseType:         useType,
		ExpiresAt:       input.ExpiresAt,
		Active:          true,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert coupon")
	}
	return toCouponResponse(created), nil
}

// UpdateCoupon mutates an existing coupon.
func (s *service) UpdateCoupon(ctx context.Context, couponID uuid.UUID, input UpdateCouponRequest) (*CouponResponse, error) {
	coupon, err := s.repo.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load coupon")
	}

	if input.DiscountPercent != nil {
		if input.DiscountPercent.LessThanOrEqual(decimal.Zero) || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
		}
		coupon.DiscountPercent = *input.DiscountPercent
	}
	if input.UseType != nil {
		useType, err := enums.ParseCouponUseType(*input.UseType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		coupon.UseType = useType
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = *input.ExpiresAt
	}
	if input.Active != nil {
		coupon.Active = *input.Active
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update coupon")
	}
	return toCouponResponse(updated), nil
}

// DeleteCoupon removes a coupon.
func (s *service) DeleteCoupon(ctx context.Context, couponID uuid.UUID) error {
	if err := s.repo.Delete(ctx, couponID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete coupon")
	}
	return nil
}

// ListCoupons returns all coupons for the admin console.
func (s *service) ListCoupons(ctx context.Context) ([]CouponResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list coupons")
	}
	out := make([]CouponResponse, 0, len(list))
	for i := range list {
		out = append(out, *toCouponResponse(&list[i]))
	}
	return out, nil
}

// GetGlobalDiscount returns the store-wide discount, or not-found when unset.
func (s *service) GetGlobalDiscount(ctx context.Context) (*GlobalDiscountResponse, error) {
	discount, err := s.repo.GetGlobalDiscount(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "global discount not configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load global discount")
	}
	return toGlobalDiscountResponse(discount), nil
}

// SetGlobalDiscount upserts the store-wide discount singleton.
func (s *service) SetGlobalDiscount(ctx context.Context, input GlobalDiscountRequest) (*GlobalDiscountResponse, error) {
	if input.DiscountAmount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_amount must be positive")
	}
	if input.MinCartTotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_cart_total cannot be negative")
	}

	discount := &models.GlobalDiscount{
		Code:           normalizeCode(input.Code),
		DiscountAmount: input.DiscountAmount,
		MinCartTotal:   input.MinCartTotal,
		ExpiresAt:      input.ExpiresAt,
	}
	if err := s.repo.UpsertGlobalDiscount(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert global discount")
	}
	return toGlobalDiscountResponse(discount), nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
