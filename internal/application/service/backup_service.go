package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/meateat/pos-api/internal/domain/entity"
	"github.com/meateat/pos-api/internal/infrastructure/database"
	"github.com/meateat/pos-api/pkg/apperror"
)

const (
	backupPrefix     = "meateat-"
	backupTimeFormat = "20060102150405"
	backupExt        = ".db"
)

// BackupService produces point-in-time consistent copies of the database
// file and replaces it from a chosen copy. Backup and restore are mutually
// exclusive critical sections over the file; after a restore the in-process
// database handle is closed for good and the process must restart.
type BackupService struct {
	db       *gorm.DB
	dbPath   string
	settings *SettingsService

	mu     sync.Mutex
	closed bool
}

// NewBackupService creates a new backup service
func NewBackupService(db *gorm.DB, dbPath string, settings *SettingsService) *BackupService {
	return &BackupService{
		db:       db,
		dbPath:   dbPath,
		settings: settings,
	}
}

// RestartRequired reports whether a completed restore has closed the
// database handle.
func (s *BackupService) RestartRequired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Backup checkpoints the WAL, copies the primary file to a temporary name
// in dir, and atomically renames it to its final timestamped name. A
// concurrent listing can therefore never observe a half-written backup
// under a final name. An empty dir falls back to the configured backup
// directory. Returns the final path.
func (s *BackupService) Backup(ctx context.Context, dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", apperror.ErrRestartRequired
	}

	if dir == "" {
		configured, _, err := s.settings.BackupSettings(ctx)
		if err != nil {
			return "", err
		}
		dir = configured
	}
	if dir == "" {
		return "", apperror.NewBadRequestError("Backup directory is not configured")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperror.NewAppError(500, fmt.Sprintf("Cannot create backup directory: %v", err))
	}

	if err := database.Checkpoint(s.db); err != nil {
		return "", fmt.Errorf("checkpoint failed: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".meateat-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp backup file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := copyInto(tmp, s.dbPath); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to copy database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize temp backup file: %w", err)
	}

	final := s.finalBackupPath(dir, time.Now())
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize backup: %w", err)
	}

	return final, nil
}

// finalBackupPath picks the timestamped name, bumping the timestamp by a
// second while a file of that name already exists so two backups in quick
// succession stay distinct.
func (s *BackupService) finalBackupPath(dir string, now time.Time) string {
	for {
		name := backupPrefix + now.Format(backupTimeFormat) + backupExt
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		now = now.Add(time.Second)
	}
}

// List enumerates the backup files in dir, newest first.
func (s *BackupService) List(ctx context.Context, dir string) ([]entity.BackupFile, error) {
	if dir == "" {
		configured, _, err := s.settings.BackupSettings(ctx)
		if err != nil {
			return nil, err
		}
		dir = configured
	}
	if dir == "" {
		return nil, apperror.NewBadRequestError("Backup directory is not configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.BackupFile{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	files := make([]entity.BackupFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), backupExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, entity.BackupFile{
			Name:       e.Name(),
			Path:       filepath.Join(dir, e.Name()),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})

	return files, nil
}

// Restore replaces the primary database file with the chosen backup.
// Source may be a backup file or a directory, in which case the most
// recently modified .db file inside it is used. Procedure: checkpoint,
// close the live handle, remove stale -wal/-shm side files, overwrite the
// primary file. The process must restart afterwards; until then every
// database-touching operation fails.
func (s *BackupService) Restore(ctx context.Context, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", apperror.ErrRestartRequired
	}

	resolved, err := s.resolveSource(ctx, source)
	if err != nil {
		return "", err
	}

	if err := database.Checkpoint(s.db); err != nil {
		return "", fmt.Errorf("checkpoint failed: %w", err)
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return "", fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return "", fmt.Errorf("failed to close database handle: %w", err)
	}
	s.closed = true

	// Stale WAL/shared-memory side files would resurrect pre-restore data
	// on the next open.
	for _, side := range []string{s.dbPath + "-wal", s.dbPath + "-shm"} {
		if err := os.Remove(side); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to remove %s: %w", side, err)
		}
	}

	if err := copyFile(resolved, s.dbPath); err != nil {
		return "", fmt.Errorf("failed to replace database file: %w", err)
	}

	return resolved, nil
}

// resolveSource turns a file-or-directory input into a concrete backup
// file path without touching the primary database.
func (s *BackupService) resolveSource(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", apperror.NewBadRequestError("Restore source is required")
	}

	info, err := os.Stat(source)
	if err != nil {
		return "", apperror.NewNotFoundError("Restore source")
	}

	if !info.IsDir() {
		return source, nil
	}

	files, err := s.List(ctx, source)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", apperror.NewNotFoundError("Backup file in " + source)
	}
	return files[0].Path, nil
}

func copyInto(dst *os.File, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Sync()
}

func copyFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
