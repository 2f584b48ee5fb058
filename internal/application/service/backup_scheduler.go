package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// BackupScheduler runs periodic backups into the configured directory.
// Rebuilt whenever the backup settings change; failures are logged and
// never reach a request-handling path.
type BackupScheduler struct {
	backups *BackupService
	log     zerolog.Logger

	cron  *cron.Cron
	mu    sync.Mutex
	entry cron.EntryID
}

// NewBackupScheduler creates a new backup scheduler
func NewBackupScheduler(backups *BackupService, log zerolog.Logger) *BackupScheduler {
	return &BackupScheduler{
		backups: backups,
		log:     log,
		cron:    cron.New(),
	}
}

// Start starts the scheduler
func (s *BackupScheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler
func (s *BackupScheduler) Stop() {
	s.cron.Stop()
}

// Reschedule replaces the periodic backup job. An interval below one
// minute disables the timer.
func (s *BackupScheduler) Reschedule(intervalMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}

	if intervalMinutes < 1 {
		s.log.Info().Msg("scheduled backups disabled")
		return nil
	}

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", intervalMinutes), s.runOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entry = id

	s.log.Info().Int("interval_minutes", intervalMinutes).Msg("scheduled backups enabled")
	return nil
}

func (s *BackupScheduler) runOnce() {
	path, err := s.backups.Backup(context.Background(), "")
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled backup failed")
		return
	}
	s.log.Info().Str("path", path).Msg("scheduled backup completed")
}
