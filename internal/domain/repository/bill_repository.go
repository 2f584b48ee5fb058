package repository

import (
	"context"
	"time"

	"github.com/meateat/pos-api/internal/domain/entity"
	"github.com/meateat/pos-api/pkg/pagination"
)

// BillRepository defines the interface for bill data operations.
//
// Create must persist the bill header and its line items, and allocate the
// bill number from the sequence counter, all in one transaction: a crash or
// concurrent request can never yield a header without items or a duplicate
// bill number.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id int64) (*entity.Bill, error)
	GetWithItems(ctx context.Context, id int64) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // bill-number substring
	StartDate  *time.Time
	EndDate    *time.Time // inclusive calendar date
}
