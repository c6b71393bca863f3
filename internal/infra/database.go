package infra

import (
	"fmt"

	"github.com/Guru6163/hotspot-sarees/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies idempotent SQL patches for the constraints GORM cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.StockItem{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.Payment{},
		&model.TransportRecord{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle:
// the quantity floor on stock rows and the restrict-delete from purchase
// lines back to stock items. Re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"stock quantity non-negative check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_items_quantity_non_negative') THEN
    ALTER TABLE stock_items
      ADD CONSTRAINT chk_stock_items_quantity_non_negative CHECK (quantity >= 0);
  END IF;
END $$`},
		{"purchase_items restrict stock delete", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_purchase_items_stock_restrict') THEN
    ALTER TABLE purchase_items
      ADD CONSTRAINT fk_purchase_items_stock_restrict
      FOREIGN KEY (stock_item_id) REFERENCES stock_items(id) ON DELETE RESTRICT;
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
