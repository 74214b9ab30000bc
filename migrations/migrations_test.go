package migrations

import (
	"path/filepath"
	"testing"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrateAndRollback(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, List())
	if err := m.Migrate(); err != nil {
		t.Fatal(err)
	}

	tables := []string{
		"wills", "beneficiaries", "allocations", "events",
		"authorized_backends", "holdings", "idempotency_keys",
	}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %q to exist", table)
		}
	}

	if err := m.RollbackLast(); err != nil {
		t.Fatal(err)
	}
	for _, table := range tables {
		if db.Migrator().HasTable(table) {
			t.Errorf("expected table %q to be dropped", table)
		}
	}
}
