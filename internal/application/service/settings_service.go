package service

import (
	"context"
	"strconv"

	"github.com/meateat/pos-api/internal/domain/entity"
	"github.com/meateat/pos-api/internal/domain/repository"
	"github.com/meateat/pos-api/pkg/apperror"
)

// SettingsService exposes the key/value settings table. The bill sequence
// counter lives in the same table but is owned by the bill write path and
// cannot be set through here.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// All returns every setting as a map, minus the sequence counter.
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	settings, err := s.settingsRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		if setting.Key == entity.SettingBillSequence {
			continue
		}
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// Get returns one setting value; empty string if the key is absent.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

// Set writes one setting value.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return apperror.NewBadRequestError("Setting key is required")
	}
	if key == entity.SettingBillSequence {
		return apperror.NewBadRequestError("Setting key is reserved: " + key)
	}
	return s.settingsRepo.Upsert(ctx, key, value)
}

// SetMany writes several settings as one atomic batch. Every key is
// validated up front; a bad key fails the whole batch with nothing written.
func (s *SettingsService) SetMany(ctx context.Context, values map[string]string) error {
	for key := range values {
		if key == "" {
			return apperror.NewBadRequestError("Setting key is required")
		}
		if key == entity.SettingBillSequence {
			return apperror.NewBadRequestError("Setting key is reserved: " + key)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return s.settingsRepo.UpsertMany(ctx, values)
}

// BackupSettings returns the configured backup directory and interval.
func (s *SettingsService) BackupSettings(ctx context.Context) (dir string, intervalMinutes int, err error) {
	dir, err = s.Get(ctx, entity.SettingBackupDir)
	if err != nil {
		return "", 0, err
	}

	raw, err := s.Get(ctx, entity.SettingBackupIntervalMinutes)
	if err != nil {
		return "", 0, err
	}
	if raw != "" {
		// A malformed stored interval reads as disabled.
		intervalMinutes, _ = strconv.Atoi(raw)
	}

	return dir, intervalMinutes, nil
}

// UpdateBackupSettings persists the backup directory and interval.
func (s *SettingsService) UpdateBackupSettings(ctx context.Context, dir string, intervalMinutes int) error {
	if dir == "" {
		return apperror.NewBadRequestError("Backup directory is required")
	}
	if intervalMinutes < 0 {
		intervalMinutes = 0
	}

	if err := s.settingsRepo.Upsert(ctx, entity.SettingBackupDir, dir); err != nil {
		return err
	}
	return s.settingsRepo.Upsert(ctx, entity.SettingBackupIntervalMinutes, strconv.Itoa(intervalMinutes))
}

// DefaultDiscountBps returns the configured default discount rate.
func (s *SettingsService) DefaultDiscountBps(ctx context.Context) (int, error) {
	raw, err := s.Get(ctx, entity.SettingDefaultDiscountBps)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}

	bps, err := strconv.Atoi(raw)
	if err != nil || bps < 0 || bps > 10000 {
		return 0, nil
	}
	return bps, nil
}
