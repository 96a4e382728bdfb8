package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
)

// RateResponse is the public shape of one shipping rate.
type RateResponse struct {
	Area      string          `json:"area"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpsertRateRequest is the admin payload for setting a region's charge.
type UpsertRateRequest struct {
	Area   string          `json:"area" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// Service exposes shipping rate reads and admin writes.
type Service interface {
	ListRates(ctx context.Context) ([]RateResponse, error)
	AmountFor(ctx context.Context, area enums.DeliveryArea) (decimal.Decimal, error)
	UpsertRate(ctx context.Context, input UpsertRateRequest) (*RateResponse, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a shipping service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	return &service{repo: repo}, nil
}

// ListRates returns all configured rates.
func (s *service) ListRates(ctx context.Context) ([]RateResponse, error) {
	rates, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list shipping rates")
	}
	out := make([]RateResponse, 0, len(rates))
	for _, rate := range rates {
		out = append(out, RateResponse{
			Area:      rate.Area.String(),
			Amount:    rate.Amount,
			UpdatedAt: rate.UpdatedAt,
		})
	}
	return out, nil
}

// AmountFor resolves the charge for a destination. A missing rate is
// reported as a validation error, never treated as zero.
func (s *service) AmountFor(ctx context.Context, area enums.DeliveryArea) (decimal.Decimal, error) {
	rate, err := s.repo.FindByArea(ctx, area)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("no shipping rate configured for %s", area))
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load shipping rate")
	}
	return rate.Amount, nil
}

// UpsertRate writes a region's charge.
func (s *service) UpsertRate(ctx context.Context, input UpsertRateRequest) (*RateResponse, error) {
	area, err := enums.ParseDeliveryArea(input.Area)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}

	rate := &models.ShippingRate{Area: area, Amount: input.Amount}
	if err := s.repo.Upsert(ctx, rate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert shipping rate")
	}
	return &RateResponse{Area: rate.Area.String(), Amount: rate.Amount, UpdatedAt: rate.UpdatedAt}, nil
}
