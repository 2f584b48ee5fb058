package repository

import (
	"context"

	"github.com/meateat/pos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for settings data access
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, key, value string) error
	UpsertMany(ctx context.Context, values map[string]string) error
	All(ctx context.Context) ([]entity.Setting, error)
}
