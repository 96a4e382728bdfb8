package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
)

// Repository persists storefront banners and navigation items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBanners returns banners ordered by position. When activeOnly is set,
// hidden banners are excluded.
func (r *Repository) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	qb := r.db.WithContext(ctx).Order("position ASC").Order("created_at ASC")
	if activeOnly {
		qb = qb.Where("active = ?", true)
	}
	var banners []models.Banner
	if err := qb.Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// FindBanner loads one banner by id.
func (r *Repository) FindBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

// CreateBanner inserts a banner row.
func (r *Repository) CreateBanner(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
		return nil, err
	}
	return banner, nil
}

// UpdateBanner saves the banner row.
func (r *Repository) UpdateBanner(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	if err := r.db.WithContext(ctx).Save(banner).Error; err != nil {
		return nil, err
	}
	return banner, nil
}

// DeleteBanner removes the banner.
func (r *Repository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id).Error
}

// ListNavItems returns navigation entries ordered by position.
func (r *Repository) ListNavItems(ctx context.Context, activeOnly bool) ([]models.NavItem, error) {
	qb := r.db.WithContext(ctx).Order("position ASC").Order("created_at ASC")
	if activeOnly {
		qb = qb.Where("active = ?", true)
	}
	var items []models.NavItem
	if err := qb.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindNavItem loads one navigation entry by id.
func (r *Repository) FindNavItem(ctx context.Context, id uuid.UUID) (*models.NavItem, error) {
	var item models.NavItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateNavItem inserts a navigation entry.
func (r *Repository) CreateNavItem(ctx context.Context, item *models.NavItem) (*models.NavItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateNavItem saves the navigation entry.
func (r *Repository) UpdateNavItem(ctx context.Context, item *models.NavItem) (*models.NavItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteNavItem removes the navigation entry.
func (r *Repository) DeleteNavItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.NavItem{}, "id = ?", id).Error
}
