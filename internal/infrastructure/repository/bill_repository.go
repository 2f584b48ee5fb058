package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/meateat/pos-api/internal/domain/entity"
	domainRepo "github.com/meateat/pos-api/internal/domain/repository"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create persists a bill and its items in a single transaction, allocating
// the bill number from the sequence counter inside that same transaction.
// If anything fails the whole write rolls back, counter increment included,
// so a committed duplicate number is impossible. SQLite's single-writer
// discipline (plus the busy timeout) serializes concurrent callers here.
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Idempotent insert-if-absent keeps first-run and seeded databases
		// on the same path.
		err := tx.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES (?, '0', CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO NOTHING`,
			entity.SettingBillSequence,
		).Error
		if err != nil {
			return err
		}

		err = tx.Exec(
			`UPDATE settings SET value = CAST(value AS INTEGER) + 1, updated_at = CURRENT_TIMESTAMP
			 WHERE key = ?`,
			entity.SettingBillSequence,
		).Error
		if err != nil {
			return err
		}

		var seq int64
		err = tx.Raw(
			`SELECT CAST(value AS INTEGER) FROM settings WHERE key = ?`,
			entity.SettingBillSequence,
		).Scan(&seq).Error
		if err != nil {
			return err
		}

		bill.BillNo = entity.FormatBillNo(seq)

		// Creates the header and, via the association, every line item.
		return tx.Create(bill).Error
	})
}

func (r *billRepository) GetByID(ctx context.Context, id int64) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) GetWithItems(ctx context.Context, id int64) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})

	if params.Search != "" {
		query = query.Where("bill_no LIKE ?", "%"+params.Search+"%")
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		// End date is an inclusive calendar date.
		query = query.Where("created_at < ?", params.EndDate.AddDate(0, 0, 1))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC, id DESC").
		Find(&bills).Error

	return bills, total, err
}

// Delete removes a bill; its line items go with it via the cascading
// foreign key. Returns false when no bill had the given id.
func (r *billRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&entity.Bill{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
