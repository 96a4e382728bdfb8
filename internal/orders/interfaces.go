package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/pagination"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByRef(ctx context.Context, ref string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}

// CatalogStore reads products and applies stock decrements inside order
// transactions.
type CatalogStore interface {
	FindProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	DecrementSize(ctx context.Context, tx *gorm.DB, productID uuid.UUID, size string, qty int) (bool, error)
	DecrementQuantity(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
}
