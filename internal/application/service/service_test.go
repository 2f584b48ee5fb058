package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/meateat/pos-api/internal/config"
	"github.com/meateat/pos-api/internal/infrastructure/database"
	"github.com/meateat/pos-api/internal/infrastructure/repository"
)

// newTestDB opens a real SQLite database in a per-test temp directory,
// migrated and seeded the same way the process boot path does it.
func newTestDB(t *testing.T) (*gorm.DB, *config.DatabaseConfig) {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Dir:           t.TempDir(),
		File:          "pos.db",
		BusyTimeoutMS: 5000,
	}

	db, err := database.NewSQLiteDB(cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDefaults(db, &config.BackupConfig{}); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}

	return db, cfg
}

func newBillService(t *testing.T) (*BillService, *gorm.DB) {
	t.Helper()
	db, _ := newTestDB(t)
	return NewBillService(repository.NewBillRepository(db)), db
}

func newSettingsService(t *testing.T) (*SettingsService, *gorm.DB) {
	t.Helper()
	db, _ := newTestDB(t)
	return NewSettingsService(repository.NewSettingsRepository(db)), db
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}
