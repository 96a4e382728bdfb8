package shipping

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

// Repository persists per-region shipping rates.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all configured rates.
func (r *Repository) List(ctx context.Context) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	if err := r.db.WithContext(ctx).Order("area").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindByArea loads the rate for one destination bucket.
func (r *Repository) FindByArea(ctx context.Context, area enums.DeliveryArea) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	if err := r.db.WithContext(ctx).First(&rate, "area = ?", area).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// Upsert writes the rate for a destination bucket.
func (r *Repository) Upsert(ctx context.Context, rate *models.ShippingRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "area"}},
			UpdateAll: true,
		}).
		Create(rate).Error
}
