package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/pagination"
)

func mustInsertOrder(t *testing.T, db *gorm.DB, ref string, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		OrderID:       ref,
		Status:        status,
		PaymentMethod: enums.PaymentMethodCOD,
		Total:         decimal.RequireFromString("1060"),
		CustomerName:  "Karim",
		CustomerPhone: "01812345678",
		CustomerEmail: "karim@example.com",
		Address:       "Mirpur 10",
		DeliveryArea:  enums.DeliveryAreaDhaka,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: uuid.New(),
		Title:     "Panjabi",
		UnitPrice: decimal.RequireFromString("1000"),
		Quantity:  1,
	}
	require.NoError(t, db.Create(item).Error)
	return order
}

func TestRepositoryList_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	mustInsertOrder(t, db, "SO-AAA", enums.OrderStatusPending, now.Add(-time.Hour))
	mustInsertOrder(t, db, "SO-BBB", enums.OrderStatusPending, now)

	first, err := repo.List(context.Background(), pagination.Params{Limit: 1}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, first.Orders, 1)
	assert.Equal(t, "SO-BBB", first.Orders[0].OrderID)
	assert.NotEmpty(t, first.NextCursor)

	second, err := repo.List(context.Background(), pagination.Params{Limit: 1, Cursor: first.NextCursor}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, "SO-AAA", second.Orders[0].OrderID)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryList_statusFilter(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	mustInsertOrder(t, db, "SO-CCC", enums.OrderStatusPending, now.Add(-time.Minute))
	mustInsertOrder(t, db, "SO-DDD", enums.OrderStatusAccepted, now)

	status := enums.OrderStatusAccepted
	list, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "SO-DDD", list.Orders[0].OrderID)
	require.Len(t, list.Orders[0].Items, 1)
}

func TestRepositoryUpdateStatus_rejectsStaleRead(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := mustInsertOrder(t, db, "SO-FFF", enums.OrderStatusPending, time.Now().UTC())

	flipped, err := repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusAccepted)
	require.NoError(t, err)
	assert.True(t, flipped)

	// A writer still holding the pending view must miss the guard; the row
	// keeps the status the first writer committed.
	flipped, err = repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusRejected)
	require.NoError(t, err)
	assert.False(t, flipped)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusAccepted, stored.Status)
}

func TestRepositoryFindByRef(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	mustInsertOrder(t, db, "SO-EEE", enums.OrderStatusPending, time.Now().UTC())

	order, err := repo.FindByRef(context.Background(), "SO-EEE")
	require.NoError(t, err)
	assert.Equal(t, "SO-EEE", order.OrderID)
	require.Len(t, order.Items, 1)

	_, err = repo.FindByRef(context.Background(), "SO-MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
