package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/migrate"
)

func TestShippedMigrationsValidate(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_products_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_sizes",
		"CREATE TABLE IF NOT EXISTS product_prices",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_slug",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_size",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_currency",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_orders_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_id",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_id",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCouponsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_coupons_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS coupons",
		"CREATE TABLE IF NOT EXISTS used_coupons",
		"CREATE TABLE IF NOT EXISTS global_discounts",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
