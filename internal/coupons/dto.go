package coupons

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
)

// ValidateCouponRequest is the storefront payload for checking a code against
// the current cart before checkout.
type ValidateCouponRequest struct {
	Code       string          `json:"code" validate:"required,max=64"`
	ProductIDs []uuid.UUID     `json:"product_ids" validate:"required,min=1"`
	Subtotal   decimal.Decimal `json:"subtotal" validate:"required"`
	Email      string          `json:"email" validate:"required,email"`
	Phone      string          `json:"phone" validate:"required,max=20"`
}

// Discount kinds returned to the storefront.
const (
	KindProduct = "product"
	KindGlobal  = "global"
)

// ValidationResult reports whether a code applies and which discount it grants.
type ValidationResult struct {
	Valid              bool             `json:"valid"`
	Type               string           `json:"type,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
	DiscountAmount     *decimal.Decimal `json:"discountAmount,omitempty"`
	Message            string           `json:"message,omitempty"`
}

// RedeemItem is one cart line considered during redemption.
type RedeemItem struct {
	ProductID uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
}

// RedeemInput carries everything needed to apply a code during order creation.
type RedeemInput struct {
	Code     string
	Email    string
	Phone    string
	OrderRef string
	UserID   *uuid.UUID
	Items    []RedeemItem
	Subtotal decimal.Decimal
}

// Redemption is the applied discount for an order.
type Redemption struct {
	Code     string
	Kind     string
	Discount decimal.Decimal
}

// CreateCouponRequest is the admin payload for adding a coupon.
type CreateCouponRequest struct {
	Code            string          `json:"code" validate:"required,max=64"`
	ProductID       uuid.UUID       `json:"product_id" validate:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"required"`
	UseType         string          `json:"use_type" validate:"required"`
	ExpiresAt       time.Time       `json:"expires_at" validate:"required"`
}

// UpdateCouponRequest mutates an existing coupon.
type UpdateCouponRequest struct {
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	UseType         *string          `json:"use_type"`
	ExpiresAt       *time.Time       `json:"expires_at"`
	Active          *bool            `json:"active"`
}

// GlobalDiscountRequest is the admin payload for the store-wide discount.
type GlobalDiscountRequest struct {
	Code           string          `json:"code" validate:"required,max=64"`
	DiscountAmount decimal.Decimal `json:"discount_amount" validate:"required"`
	MinCartTotal   decimal.Decimal `json:"min_cart_total" validate:"required"`
	ExpiresAt      time.Time       `json:"expires_at" validate:"required"`
}

// CouponResponse is the admin-facing coupon shape.
type CouponResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	ProductID       uuid.UUID       `json:"product_id"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	UseType         string          `json:"use_type"`
	ExpiresAt       time.Time       `json:"expires_at"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// GlobalDiscountResponse is the store-wide discount shape.
type GlobalDiscountResponse struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	MinCartTotal   decimal.Decimal `json:"min_cart_total"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

func toCouponResponse(c *models.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:              c.ID,
		Code:            c.Code,
		ProductID:       c.ProductID,
		DiscountPercent: c.DiscountPercent,
		UseType:         c.UseType.String(),
		ExpiresAt:       c.ExpiresAt,
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
	}
}

func toGlobalDiscountResponse(d *models.GlobalDiscount) *GlobalDiscountResponse {
	return &GlobalDiscountResponse{
		Code:           d.Code,
		DiscountAmount: d.DiscountAmount,
		MinCartTotal:   d.MinCartTotal,
		ExpiresAt:      d.ExpiresAt,
	}
}
