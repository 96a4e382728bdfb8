package coupons

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
)

func setupCouponsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  product_id TEXT NOT NULL,
  discount_percent NUMERIC NOT NULL,
  use_type TEXT NOT NULL DEFAULT 'multiple',
  expires_at DATETIME NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS used_coupons (
  id TEXT PRIMARY KEY,
  coupon_code TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  order_id TEXT NOT NULL,
  user_id TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS global_discounts (
  key TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  discount_amount NUMERIC NOT NULL,
  min_cart_total NUMERIC NOT NULL,
  expires_at DATETIME NOT NULL,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestCouponService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func mustCreateCoupon(t *testing.T, db *gorm.DB, code string, productID uuid.UUID, percent string, useType enums.CouponUseType) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		ID:              uuid.New(),
		Code:            code,
		ProductID:       productID,
		DiscountPercent: decimal.RequireFromString(percent),
		UseType:         useType,
		ExpiresAt:       time.Now().Add(24 * time.Hour),
		Active:          true,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func mustSetGlobalDiscount(t *testing.T, db *gorm.DB, code, amount, minCart string, expires time.Time) {
	t.Helper()
	discount := &models.GlobalDiscount{
		Key:            models.GlobalDiscountKey,
		Code:           code,
		DiscountAmount: decimal.RequireFromString(amount),
		MinCartTotal:   decimal.RequireFromString(minCart),
		ExpiresAt:      expires,
	}
	require.NoError(t, db.Create(discount).Error)
}

func validateReq(code string, productIDs []uuid.UUID, subtotal string) ValidateCouponRequest {
	return ValidateCouponRequest{
		Code:       code,
		ProductIDs: productIDs,
		Subtotal:   decimal.RequireFromString(subtotal),
		Email:      "rahim@example.com",
		Phone:      "01712345678",
	}
}

func TestValidate_productCouponPrecedence(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	productID := uuid.New()
	mustCreateCoupon(t, db, "eid10", productID, "10", enums.CouponUseTypeMultiple)
	// A global discount with the same code must lose to the product coupon.
	mustSetGlobalDiscount(t, db, "eid10", "500", "0", time.Now().Add(24*time.Hour))

	result, err := svc.Validate(context.Background(), validateReq("EID10", []uuid.UUID{productID}, "2000"))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, KindProduct, result.Type)
	require.NotNil(t, result.DiscountPercentage)
	assert.True(t, result.DiscountPercentage.Equal(decimal.RequireFromString("10")))
	assert.Nil(t, result.DiscountAmount)
}

func TestValidate_productCouponNeedsTargetInCart(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	mustCreateCoupon(t, db, "eid10", uuid.New(), "10", enums.CouponUseTypeMultiple)

	result, err := svc.Validate(context.Background(), validateReq("eid10", []uuid.UUID{uuid.New()}, "2000"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message)
}

func TestValidate_oneTimeAlreadyReceipted(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	productID := uuid.New()
	mustCreateCoupon(t, db, "once5", productID, "5", enums.CouponUseTypeOneTime)
	receipt := &models.UsedCoupon{
		ID:         uuid.New(),
		CouponCode: "once5",
		Email:      "other@example.com",
		Phone:      "01712345678", // same phone, different email
		OrderID:    "SO-PRIOR",
	}
	require.NoError(t, db.Create(receipt).Error)

	result, err := svc.Validate(context.Background(), validateReq("once5", []uuid.UUID{productID}, "2000"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "coupon already used", result.Message)
}

func TestValidate_globalMinCartBoundary(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	mustSetGlobalDiscount(t, db, "save100", "100", "1000", time.Now().Add(24*time.Hour))

	below, err := svc.Validate(context.Background(), validateReq("save100", []uuid.UUID{uuid.New()}, "999.99"))
	require.NoError(t, err)
	assert.False(t, below.Valid)

	exact, err := svc.Validate(context.Background(), validateReq("save100", []uuid.UUID{uuid.New()}, "1000"))
	require.NoError(t, err)
	assert.True(t, exact.Valid)
	assert.Equal(t, KindGlobal, exact.Type)
	require.NotNil(t, exact.DiscountAmount)
	assert.True(t, exact.DiscountAmount.Equal(decimal.RequireFromString("100")))
}

func TestValidate_expiredGlobal(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	mustSetGlobalDiscount(t, db, "old", "100", "0", time.Now().Add(-time.Hour))

	result, err := svc.Validate(context.Background(), validateReq("old", []uuid.UUID{uuid.New()}, "5000"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "coupon has expired", result.Message)
}

func TestValidate_unknownCode(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	result, err := svc.Validate(context.Background(), validateReq("nope", []uuid.UUID{uuid.New()}, "5000"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "invalid coupon code", result.Message)
}

func TestRedeem_writesReceiptOnlyForOneTime(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	productID := uuid.New()
	mustCreateCoupon(t, db, "multi20", productID, "20", enums.CouponUseTypeMultiple)

	input := RedeemInput{
		Code:     "multi20",
		Email:    "rahim@example.com",
		Phone:    "01712345678",
		OrderRef: "SO-1",
		Items: []RedeemItem{
			{ProductID: productID, UnitPrice: decimal.RequireFromString("500"), Quantity: 2},
			{ProductID: uuid.New(), UnitPrice: decimal.RequireFromString("300"), Quantity: 1},
		},
		Subtotal: decimal.RequireFromString("1300"),
	}

	redemption, err := svc.Redeem(context.Background(), db, input)
	require.NoError(t, err)
	// 20% of the 1000 taka matching line only.
	assert.True(t, redemption.Discount.Equal(decimal.RequireFromString("200")), "got %s", redemption.Discount)

	var receipts int64
	require.NoError(t, db.Model(&models.UsedCoupon{}).Count(&receipts).Error)
	assert.Equal(t, int64(0), receipts)

	// Multiple-use codes can be redeemed again.
	_, err = svc.Redeem(context.Background(), db, input)
	require.NoError(t, err)
}

func TestRedeem_oneTimeBlockedOnSecondUse(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	productID := uuid.New()
	mustCreateCoupon(t, db, "once5", productID, "5", enums.CouponUseTypeOneTime)

	input := RedeemInput{
		Code:     "ONCE5",
		Email:    "rahim@example.com",
		Phone:    "01712345678",
		OrderRef: "SO-1",
		Items:    []RedeemItem{{ProductID: productID, UnitPrice: decimal.RequireFromString("1000"), Quantity: 1}},
		Subtotal: decimal.RequireFromString("1000"),
	}

	_, err := svc.Redeem(context.Background(), db, input)
	require.NoError(t, err)

	input.OrderRef = "SO-2"
	_, err = svc.Redeem(context.Background(), db, input)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSetGlobalDiscount_upsertsSingleton(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc := newTestCouponService(t, db)

	_, err := svc.SetGlobalDiscount(context.Background(), GlobalDiscountRequest{
		Code:           "First",
		DiscountAmount: decimal.RequireFromString("50"),
		MinCartTotal:   decimal.RequireFromString("500"),
		ExpiresAt:      time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	updated, err := svc.SetGlobalDiscount(context.Background(), GlobalDiscountRequest{
		Code:           "second",
		DiscountAmount: decimal.RequireFromString("75"),
		MinCartTotal:   decimal.RequireFromString("800"),
		ExpiresAt:      time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Code)

	var rows int64
	require.NoError(t, db.Model(&models.GlobalDiscount{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	current, err := svc.GetGlobalDiscount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", current.Code)
	assert.True(t, current.DiscountAmount.Equal(decimal.RequireFromString("75")))
}
