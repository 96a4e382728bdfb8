package coupons

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
)

// Repository wires together coupon and global discount persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads a coupon by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByCode loads a coupon by its normalized lowercase code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "code = ?", strings.ToLower(strings.TrimSpace(code))).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// List returns all coupons, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Coupon, error) {
	var list []models.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts a coupon row.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update saves the coupon row.
func (r *Repository) Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Save(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete removes the coupon.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id).Error
}

// HasUsage reports whether a usage receipt exists for the code matching either
// the email or the phone.
func (r *Repository) HasUsage(ctx context.Context, code, email, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UsedCoupon{}).
		Where("coupon_code = ? AND (email = ? OR phone = ?)", strings.ToLower(strings.TrimSpace(code)), email, phone).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUsage writes a usage receipt row.
func (r *Repository) CreateUsage(ctx context.Context, usage *models.UsedCoupon) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

// GetGlobalDiscount loads the store-wide discount singleton.
func (r *Repository) GetGlobalDiscount(ctx context.Context) (*models.GlobalDiscount, error) {
	var discount models.GlobalDiscount
	err := r.db.WithContext(ctx).First(&discount, "key = ?", models.GlobalDiscountKey).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

// UpsertGlobalDiscount writes the singleton row, replacing any prior values.
func (r *Repository) UpsertGlobalDiscount(ctx context.Context, discount *models.GlobalDiscount) error {
	discount.Key = models.GlobalDiscountKey
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(discount).Error
}
