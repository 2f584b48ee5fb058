package database

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/meateat/pos-api/internal/config"
	"github.com/meateat/pos-api/internal/domain/entity"
)

// NewSQLiteDB opens (creating if needed) the embedded SQLite database.
// The DSN enables WAL journaling, foreign keys and a generous busy timeout;
// the autocheckpoint pragma bounds WAL growth under sustained write load.
func NewSQLiteDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Exec("PRAGMA wal_autocheckpoint = 1000").Error; err != nil {
		return nil, fmt.Errorf("failed to set wal_autocheckpoint: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// One local process, a handful of concurrent requests: a small pool is
	// plenty, and SQLite admits only one writer at a time anyway.
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetMaxOpenConns(8)

	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Setting{},
		&entity.Product{},
		&entity.Bill{},
		&entity.BillItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SeedDefaults inserts the well-known settings rows if absent. Existing
// values (including the bill sequence counter) are never overwritten.
func SeedDefaults(db *gorm.DB, backup *config.BackupConfig) error {
	defaults := []entity.Setting{
		{Key: entity.SettingBillSequence, Value: "0"},
		{Key: entity.SettingBackupDir, Value: backup.Dir},
		{Key: entity.SettingBackupIntervalMinutes, Value: fmt.Sprintf("%d", backup.IntervalMinutes)},
		{Key: entity.SettingDefaultDiscountBps, Value: "0"},
	}

	for i := range defaults {
		err := db.Where(entity.Setting{Key: defaults[i].Key}).
			FirstOrCreate(&defaults[i]).Error
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", defaults[i].Key, err)
		}
	}
	return nil
}

// Checkpoint folds the write-ahead log back into the primary database file
// so the primary file alone is self-consistent. Backup and restore both
// call this before touching the file at the filesystem level.
func Checkpoint(db *gorm.DB) error {
	return db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
}
