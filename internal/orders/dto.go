package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

// OrderItemInput is one cart line submitted at checkout.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Size      string    `json:"size" validate:"max=32"`
}

// CreateOrderRequest is the storefront checkout payload. Totals are
// recomputed server-side; client-sent amounts are never trusted.
type CreateOrderRequest struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`

	CustomerName  string `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string `json:"customer_phone" validate:"required,max=20"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Address       string `json:"address" validate:"required,max=500"`
	DeliveryArea  string `json:"delivery_area" validate:"required"`
	District      string `json:"district" validate:"max=100"`
	Thana         string `json:"thana" validate:"max=100"`

	PaymentMethod      string `json:"payment_method" validate:"required"`
	BkashNumber        string `json:"bkash_number" validate:"omitempty,len=11,numeric"`
	BkashTransactionID string `json:"bkash_transaction_id" validate:"max=64"`

	CouponCode string `json:"coupon_code" validate:"max=64"`
}

// AdminActionRequest carries the admin decision on a pending order.
type AdminActionRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

// ListFilters narrows admin order listings.
type ListFilters struct {
	Status *enums.OrderStatus
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
}

// OrderItemResponse is one line of an order in API responses.
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Size      *string         `json:"size,omitempty"`
}

// OrderResponse is the full order shape.
type OrderResponse struct {
	OrderID        string              `json:"orderId"`
	Status         string              `json:"status"`
	PaymentMethod  string              `json:"payment_method"`
	Total          decimal.Decimal     `json:"total"`
	Discount       decimal.Decimal     `json:"discount"`
	ShippingCharge decimal.Decimal     `json:"shipping_charge"`
	CouponCode     *string             `json:"coupon_code,omitempty"`
	CustomerName   string              `json:"customer_name"`
	CustomerPhone  string              `json:"customer_phone"`
	CustomerEmail  string              `json:"customer_email"`
	Address        string              `json:"address"`
	DeliveryArea   string              `json:"delivery_area"`
	District       *string             `json:"district,omitempty"`
	Thana          *string             `json:"thana,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// OrderListResponse is one admin page of orders.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func toOrderResponse(o *models.Order) *OrderResponse {
	resp := &OrderResponse{
		OrderID:        o.OrderID,
		Status:         o.Status.String(),
		PaymentMethod:  o.PaymentMethod.String(),
		Total:          o.Total,
		Discount:       o.Discount,
		ShippingCharge: o.ShippingCharge,
		CouponCode:     o.CouponCode,
		CustomerName:   o.CustomerName,
		CustomerPhone:  o.CustomerPhone,
		CustomerEmail:  o.CustomerEmail,
		Address:        o.Address,
		DeliveryArea:   o.DeliveryArea.String(),
		District:       o.District,
		Thana:          o.Thana,
		Items:          make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}
	return resp
}
