package entity

import "time"

// Well-known settings keys.
const (
	SettingBillSequence          = "bill_sequence"
	SettingBackupDir             = "backup_dir"
	SettingBackupIntervalMinutes = "backup_interval_minutes"
	SettingDefaultDiscountBps    = "default_discount_bps"
)

// Setting is one row of the key/value settings table. The bill sequence
// counter lives here too, mutated only inside the bill-write transaction.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}

// BackupFile describes one backup copy of the database file on disk.
type BackupFile struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}
