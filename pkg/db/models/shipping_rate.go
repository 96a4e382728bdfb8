package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

// ShippingRate is the flat delivery charge for one destination bucket.
type ShippingRate struct {
	Area      enums.DeliveryArea `gorm:"column:area;type:text;primaryKey"`
	Amount    decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
