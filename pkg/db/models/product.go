package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

// Product represents a storefront listing. Aggregate Quantity mirrors the sum of
// per-size quantities whenever SizeRequirement is mandatory; both are written in
// the same transaction on the accept path.
type Product struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug            string                `gorm:"column:slug;uniqueIndex;not null"`
	Title           string                `gorm:"column:title;not null"`
	Description     string                `gorm:"column:description"`
	Availability    enums.Availability    `gorm:"column:availability;type:text;not null;default:'in_stock'"`
	ProductType     enums.ProductType     `gorm:"column:product_type;type:text;not null;default:'own'"`
	SizeRequirement enums.SizeRequirement `gorm:"column:size_requirement;type:text;not null;default:'optional'"`
	Quantity        int                   `gorm:"column:quantity;not null;default:0"`
	AffiliateURL    string                `gorm:"column:affiliate_url"`
	IsActive        bool                  `gorm:"column:is_active;not null;default:true"`
	Sizes           []ProductSize         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Prices          []ProductPrice        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductSize tracks remaining stock for one size variant of a product.
type ProductSize struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_size"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_product_size"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductPrice holds one currency denomination for a product.
type ProductPrice struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_currency"`
	Currency  string          `gorm:"column:currency;not null;uniqueIndex:idx_product_currency"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
