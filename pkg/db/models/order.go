package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

// Order is a customer order. Customer contact fields and line items are a
// snapshot taken at creation time; later product or user edits never change
// historical orders.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        string              `gorm:"column:order_id;uniqueIndex;not null"`
	UserID         *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	Status         enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Total          decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Discount       decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	ShippingCharge decimal.Decimal     `gorm:"column:shipping_charge;type:numeric(12,2);not null;default:0"`
	CouponCode     *string             `gorm:"column:coupon_code"`

	CustomerName  string             `gorm:"column:customer_name;not null"`
	CustomerPhone string             `gorm:"column:customer_phone;not null"`
	CustomerEmail string             `gorm:"column:customer_email;not null"`
	Address       string             `gorm:"column:address;not null"`
	DeliveryArea  enums.DeliveryArea `gorm:"column:delivery_area;type:text;not null"`
	District      *string            `gorm:"column:district"`
	Thana         *string            `gorm:"column:thana"`

	BkashNumber        *string `gorm:"column:bkash_number"`
	BkashTransactionID *string `gorm:"column:bkash_transaction_id"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures the snapshot of one line within an order.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Title     string          `gorm:"column:title;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Size      *string         `gorm:"column:size"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
