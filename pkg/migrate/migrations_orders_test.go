package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veranievas/floralia-backend/pkg/migrate"
)

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CONSTRAINT uq_orders_reference UNIQUE (reference)",
		"tax_rate NUMERIC(6,4) NOT NULL",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (qty > 0)",
		"DROP TABLE IF EXISTS order_items",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCouponsMigrationEnforcesOnePerUser(t *testing.T) {
	content := readMigration(t, "*_create_coupons.sql")

	checks := []string{
		"CONSTRAINT uq_coupons_code UNIQUE (code)",
		"CONSTRAINT uq_coupons_user_id UNIQUE (user_id)",
		"is_redeemed BOOLEAN NOT NULL DEFAULT FALSE",
		"CHECK (percent > 0 AND percent <= 100)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStoreSettingsMigrationSeedsTaxRate(t *testing.T) {
	content := readMigration(t, "*_create_store_settings.sql")

	checks := []string{
		"CONSTRAINT uq_store_settings_key_version UNIQUE (key, version)",
		"INSERT INTO store_settings (key, version, value) VALUES ('tax_rate', 1, '0.16')",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
