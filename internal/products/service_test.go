package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  description TEXT,
  availability TEXT NOT NULL DEFAULT 'in_stock',
  product_type TEXT NOT NULL DEFAULT 'own',
  size_requirement TEXT NOT NULL DEFAULT 'optional',
  quantity INTEGER NOT NULL DEFAULT 0,
  affiliate_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_sizes (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, name)
);`,
		`CREATE TABLE IF NOT EXISTS product_prices (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  currency TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, currency)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

// testTxClient satisfies the db.Client surface the service needs.
func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn))
	require.NoError(t, err)
	return svc
}

func createRequest(slug string) CreateProductRequest {
	return CreateProductRequest{
		Slug:            slug,
		Title:           "Premium Panjabi",
		Description:     "Eid collection",
		Availability:    "in_stock",
		ProductType:     "own",
		SizeRequirement: "mandatory",
		Quantity:        10,
		Sizes: []SizeInput{
			{Name: "M", Quantity: 4},
			{Name: "L", Quantity: 6},
		},
		Prices: []PriceInput{{Currency: "BDT", Amount: decimal.RequireFromString("1200")}},
	}
}

func TestCreateProduct_withSizesAndPrices(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	resp, err := svc.CreateProduct(context.Background(), createRequest("premium-panjabi"))
	require.NoError(t, err)
	assert.Equal(t, "premium-panjabi", resp.Slug)
	assert.Len(t, resp.Sizes, 2)
	require.Len(t, resp.Prices, 1)
	assert.True(t, resp.Prices[0].Amount.Equal(decimal.RequireFromString("1200")))
	assert.True(t, resp.IsActive)
}

func TestCreateProduct_rejectsDuplicateSlug(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.CreateProduct(context.Background(), createRequest("dup-slug"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), createRequest("dup-slug"))
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateProduct_mandatorySizesRequired(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	req := createRequest("no-sizes")
	req.Sizes = nil

	_, err := svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateProduct_affiliateNeedsURL(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	req := createRequest("affiliate-watch")
	req.ProductType = "affiliate"

	_, err := svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	req.AffiliateURL = "https://example.com/watch"
	resp, err := svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "affiliate", resp.ProductType)
}

func TestUpdateProduct_replacesSizes(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	created, err := svc.CreateProduct(context.Background(), createRequest("resize-me"))
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductRequest{
		Sizes: []SizeInput{
			{Name: "XL", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Sizes, 1)
	assert.Equal(t, "XL", updated.Sizes[0].Name)

	var count int64
	require.NoError(t, conn.Model(&models.ProductSize{}).Where("product_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetProductBySlug(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.CreateProduct(context.Background(), createRequest("find-me"))
	require.NoError(t, err)

	resp, err := svc.GetProductBySlug(context.Background(), "  FIND-ME  ")
	require.NoError(t, err)
	assert.Equal(t, "find-me", resp.Slug)

	_, err = svc.GetProductBySlug(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListProducts_skipsInactive(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	created, err := svc.CreateProduct(context.Background(), createRequest("active-one"))
	require.NoError(t, err)
	hidden, err := svc.CreateProduct(context.Background(), createRequest("hidden-one"))
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateProduct(context.Background(), hidden.ID, UpdateProductRequest{IsActive: &inactive})
	require.NoError(t, err)

	list, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestRepositoryDecrementSize_guardsStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	product := &models.Product{
		ID:              uuid.New(),
		Slug:            "stock-check",
		Title:           "Jersey",
		Quantity:        5,
		IsActive:        true,
		Availability:    enums.AvailabilityInStock,
		ProductType:     enums.ProductTypeOwn,
		SizeRequirement: enums.SizeRequirementMandatory,
	}
	require.NoError(t, conn.Create(product).Error)
	size := &models.ProductSize{ID: uuid.New(), ProductID: product.ID, Name: "M", Quantity: 2}
	require.NoError(t, conn.Create(size).Error)

	ok, err := repo.DecrementSize(context.Background(), product.ID, "M", 3)
	require.NoError(t, err)
	assert.False(t, ok, "decrement beyond stock must be a no-op")
	assert.Equal(t, 2, currentSizeQty(t, conn, product.ID, "M"))

	ok, err = repo.DecrementSize(context.Background(), product.ID, "M", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, currentSizeQty(t, conn, product.ID, "M"))
}

func currentSizeQty(t *testing.T, conn *gorm.DB, productID uuid.UUID, name string) int {
	t.Helper()
	var s models.ProductSize
	require.NoError(t, conn.First(&s, "product_id = ? AND name = ?", productID, name).Error)
	return s.Quantity
}
