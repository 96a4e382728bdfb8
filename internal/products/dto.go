package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
)

// SizeInput is one size variant in a create/update request.
type SizeInput struct {
	Name     string `json:"name" validate:"required,max=32"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// PriceInput is one currency denomination in a create/update request.
type PriceInput struct {
	Currency string          `json:"currency" validate:"required,oneof=BDT USD"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

// CreateProductRequest is the admin payload for adding a product.
type CreateProductRequest struct {
	Slug            string       `json:"slug" validate:"required,max=160"`
	Title           string       `json:"title" validate:"required,max=200"`
	Description     string       `json:"description" validate:"max=10000"`
	Availability    string       `json:"availability" validate:"required"`
	ProductType     string       `json:"product_type" validate:"required"`
	SizeRequirement string       `json:"size_requirement" validate:"required"`
	Quantity        int          `json:"quantity" validate:"gte=0"`
	AffiliateURL    string       `json:"affiliate_url" validate:"omitempty,url"`
	Sizes           []SizeInput  `json:"sizes" validate:"dive"`
	Prices          []PriceInput `json:"prices" validate:"min=1,dive"`
}

// UpdateProductRequest mirrors the create payload; sizes and prices replace
// the existing sets when present.
type UpdateProductRequest struct {
	Title           *string      `json:"title" validate:"omitempty,max=200"`
	Description     *string      `json:"description" validate:"omitempty,max=10000"`
	Availability    *string      `json:"availability"`
	SizeRequirement *string      `json:"size_requirement"`
	Quantity        *int         `json:"quantity" validate:"omitempty,gte=0"`
	AffiliateURL    *string      `json:"affiliate_url" validate:"omitempty,url"`
	IsActive        *bool        `json:"is_active"`
	Sizes           []SizeInput  `json:"sizes" validate:"omitempty,dive"`
	Prices          []PriceInput `json:"prices" validate:"omitempty,dive"`
}

// SizeResponse is one size variant in an API response.
type SizeResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PriceResponse is one currency denomination in an API response.
type PriceResponse struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// ProductResponse is the public product shape.
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Availability    string          `json:"availability"`
	ProductType     string          `json:"product_type"`
	SizeRequirement string          `json:"size_requirement"`
	Quantity        int             `json:"quantity"`
	AffiliateURL    string          `json:"affiliate_url,omitempty"`
	IsActive        bool            `json:"is_active"`
	Sizes           []SizeResponse  `json:"sizes"`
	Prices          []PriceResponse `json:"prices"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toProductResponse(p *models.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		Description:     p.Description,
		Availability:    p.Availability.String(),
		ProductType:     p.ProductType.String(),
		SizeRequirement: p.SizeRequirement.String(),
		Quantity:        p.Quantity,
		AffiliateURL:    p.AffiliateURL,
		IsActive:        p.IsActive,
		Sizes:           make([]SizeResponse, 0, len(p.Sizes)),
		Prices:          make([]PriceResponse, 0, len(p.Prices)),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, s := range p.Sizes {
		resp.Sizes = append(resp.Sizes, SizeResponse{Name: s.Name, Quantity: s.Quantity})
	}
	for _, pr := range p.Prices {
		resp.Prices = append(resp.Prices, PriceResponse{Currency: pr.Currency, Amount: pr.Amount})
	}
	return resp
}
