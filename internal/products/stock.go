package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
)

// Stock applies inventory reads and decrements inside caller-owned
// transactions. Order acceptance passes its transaction handle so every
// decrement commits or rolls back with the status change.
type Stock struct {
	repo *Repository
}

// NewStock builds the stock adapter over the catalog repository.
func NewStock(repo *Repository) (*Stock, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &Stock{repo: repo}, nil
}

// FindProduct loads one product with sizes and prices inside tx.
func (s *Stock) FindProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	return s.repo.WithTx(tx).FindByID(ctx, id)
}

// DecrementSize subtracts qty from one size variant; false means insufficient
// stock and nothing was written.
func (s *Stock) DecrementSize(ctx context.Context, tx *gorm.DB, productID uuid.UUID, size string, qty int) (bool, error) {
	return s.repo.WithTx(tx).DecrementSize(ctx, productID, size, qty)
}

// DecrementQuantity subtracts qty from the aggregate product stock; false
// means insufficient stock and nothing was written.
func (s *Stock) DecrementQuantity(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	return s.repo.WithTx(tx).DecrementQuantity(ctx, productID, qty)
}
