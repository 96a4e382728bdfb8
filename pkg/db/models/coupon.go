package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

// Coupon is a product-scoped percentage discount code. Codes are matched
// case-insensitively and stored lowercase.
type Coupon struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string              `gorm:"column:code;uniqueIndex;not null"`
	ProductID       uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	DiscountPercent decimal.Decimal     `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	UseType         enums.CouponUseType `gorm:"column:use_type;type:text;not null;default:'multiple'"`
	ExpiresAt       time.Time           `gorm:"column:expires_at;not null"`
	Active          bool                `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// UsedCoupon is the usage receipt written when a one-time coupon is redeemed.
// A matching receipt for the same email or phone blocks reuse.
type UsedCoupon struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponCode string     `gorm:"column:coupon_code;index;not null"`
	Email      string     `gorm:"column:email;index;not null"`
	Phone      string     `gorm:"column:phone;index;not null"`
	OrderID    string     `gorm:"column:order_id;not null"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// GlobalDiscountKey is the fixed primary key of the GlobalDiscount singleton.
const GlobalDiscountKey = "global"

// GlobalDiscount is the store-wide flat discount singleton. The fixed key keeps
// writes idempotent via upsert.
type GlobalDiscount struct {
	Key            string          `gorm:"column:key;primaryKey;default:'global'"`
	Code           string          `gorm:"column:code;not null"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	MinCartTotal   decimal.Decimal `gorm:"column:min_cart_total;type:numeric(12,2);not null"`
	ExpiresAt      time.Time       `gorm:"column:expires_at;not null"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
