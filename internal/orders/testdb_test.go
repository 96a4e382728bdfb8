package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db/models"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
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
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  user_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  total NUMERIC NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  shipping_charge NUMERIC NOT NULL DEFAULT 0,
  coupon_code TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  address TEXT NOT NULL,
  delivery_area TEXT NOT NULL,
  district TEXT,
  thana TEXT,
  bkash_number TEXT,
  bkash_transaction_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  size TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  product_id TEXT NOT NULL,
  discount_percent NUMERIC NOT NULL,
  use_type TEXT NOT NULL DEFAULT 'multiple',
  expires_at DATETIME NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS used_coupons (
  id TEXT PRIMARY KEY,
  coupon_code TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  order_id TEXT NOT NULL,
  user_id TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS global_discounts (
  key TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  discount_amount NUMERIC NOT NULL,
  min_cart_total NUMERIC NOT NULL,
  expires_at DATETIME NOT NULL,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS shipping_rates (
  area TEXT PRIMARY KEY,
  amount NUMERIC NOT NULL,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// testTxRunner mirrors the production transaction wrapper over the test DB.
type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type testProductSpec struct {
	title           string
	quantity        int
	price           string
	availability    enums.Availability
	productType     enums.ProductType
	sizeRequirement enums.SizeRequirement
	sizes           map[string]int
}

func mustCreateProduct(t *testing.T, db *gorm.DB, spec testProductSpec) *models.Product {
	t.Helper()

	if spec.availability == "" {
		spec.availability = enums.AvailabilityInStock
	}
	if spec.productType == "" {
		spec.productType = enums.ProductTypeOwn
	}
	if spec.sizeRequirement == "" {
		spec.sizeRequirement = enums.SizeRequirementOptional
	}
	if spec.price == "" {
		spec.price = "100"
	}

	product := &models.Product{
		ID:              uuid.New(),
		Slug:            fmt.Sprintf("%s-%s", spec.title, uuid.NewString()[:8]),
		Title:           spec.title,
		Availability:    spec.availability,
		ProductType:     spec.productType,
		SizeRequirement: spec.sizeRequirement,
		Quantity:        spec.quantity,
		IsActive:        true,
	}
	require.NoError(t, db.Create(product).Error)

	for name, qty := range spec.sizes {
		size := &models.ProductSize{ID: uuid.New(), ProductID: product.ID, Name: name, Quantity: qty}
		require.NoError(t, db.Create(size).Error)
	}

	price := &models.ProductPrice{
		ID:        uuid.New(),
		ProductID: product.ID,
		Currency:  DefaultCurrency,
		Amount:    decimal.RequireFromString(spec.price),
	}
	require.NoError(t, db.Create(price).Error)
	return product
}

func mustSeedShippingRate(t *testing.T, db *gorm.DB, area enums.DeliveryArea, amount string) {
	t.Helper()

	rate := &models.ShippingRate{Area: area, Amount: decimal.RequireFromString(amount)}
	require.NoError(t, db.Create(rate).Error)
}
