package service

import (
	"context"
	"math"
	"strings"

	"github.com/meateat/pos-api/internal/domain/entity"
	"github.com/meateat/pos-api/internal/domain/enum"
	"github.com/meateat/pos-api/internal/domain/repository"
	"github.com/meateat/pos-api/pkg/apperror"
	"github.com/meateat/pos-api/pkg/pagination"
)

// Quantity bounds: out-of-range quantities clamp rather than reject, so one
// typo'd line never drops an otherwise valid bill.
const (
	MinQuantity = 1
	MaxQuantity = 1000
)

// BillService is the single write path for new sales. It validates and
// normalizes candidate line items, recomputes every derived monetary field
// from raw inputs, and hands the finished bill to the repository for the
// atomic sequence-allocating write.
type BillService struct {
	billRepo repository.BillRepository
}

// NewBillService creates a new bill service
func NewBillService(billRepo repository.BillRepository) *BillService {
	return &BillService{billRepo: billRepo}
}

// BillItemInput is one candidate line item. Quantity and unit price arrive
// as floats because the caller is a JSON UI; both are coerced to integers
// server-side. Any caller-supplied line total is ignored.
type BillItemInput struct {
	ProductID      int64
	Name           string
	UnitPriceCents float64
	Quantity       float64
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	Items            []BillItemInput
	DiscountRateBps  int
	PaymentMode      enum.PaymentMode
	SplitCashCents   int64
	SplitOnlineCents int64
}

// CreateBill validates, normalizes and atomically persists a complete bill.
// Either the header, all surviving line items and the advanced sequence
// counter commit together, or nothing does.
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Bill has no items")
	}

	if !input.PaymentMode.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment mode: " + string(input.PaymentMode))
	}

	items := normalizeItems(input.Items)
	if len(items) == 0 {
		return nil, apperror.NewBadRequestError("Bill has no valid items")
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotalCents
	}

	rate := clampInt(input.DiscountRateBps, 0, 10000)
	discount := discountFor(subtotal, rate)
	total := subtotal - discount

	bill := &entity.Bill{
		SubtotalCents:   subtotal,
		DiscountRateBps: rate,
		DiscountCents:   discount,
		TotalCents:      total,
		PaymentMode:     input.PaymentMode,
		Items:           items,
	}

	switch input.PaymentMode {
	case enum.PaymentModeCash:
		bill.SplitCashCents = total
		bill.SplitOnlineCents = 0
	case enum.PaymentModeOnline:
		bill.SplitCashCents = 0
		bill.SplitOnlineCents = total
	case enum.PaymentModeSplit:
		cash := maxInt64(input.SplitCashCents, 0)
		online := maxInt64(input.SplitOnlineCents, 0)
		// Exact reconciliation: an off-by-one-cent split is rejected, never
		// rounded into place.
		if cash+online != total {
			return nil, apperror.NewBadRequestError("Split amounts must sum exactly to the bill total")
		}
		bill.SplitCashCents = cash
		bill.SplitOnlineCents = online
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// normalizeItems applies the server-authoritative per-item policy: drop
// lines with a non-positive product id or blank name, clamp quantity to
// [MinQuantity, MaxQuantity], floor the unit price to non-negative whole
// cents, and recompute the line total.
func normalizeItems(inputs []BillItemInput) []entity.BillItem {
	items := make([]entity.BillItem, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if in.ProductID <= 0 || name == "" {
			continue
		}

		qty := clampInt(int(in.Quantity), MinQuantity, MaxQuantity)

		price := int64(math.Floor(in.UnitPriceCents))
		if price < 0 {
			price = 0
		}

		items = append(items, entity.BillItem{
			ProductID:      in.ProductID,
			Name:           name,
			UnitPriceCents: price,
			Quantity:       qty,
			LineTotalCents: price * int64(qty),
		})
	}
	return items
}

// discountFor computes round-half-away-from-zero(subtotal * rateBps / 10000)
// on a non-negative subtotal, all in integer arithmetic.
func discountFor(subtotalCents int64, rateBps int) int64 {
	return (subtotalCents*int64(rateBps) + 5000) / 10000
}

// GetBill retrieves a bill with its frozen line items
func (s *BillService) GetBill(ctx context.Context, id int64) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills filtered by bill-number substring and date range
func (s *BillService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	// A reversed range is swapped, not rejected.
	if params.StartDate != nil && params.EndDate != nil && params.StartDate.After(*params.EndDate) {
		params.StartDate, params.EndDate = params.EndDate, params.StartDate
	}

	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// DeleteBill hard-deletes a bill; its line items cascade with it
func (s *BillService) DeleteBill(ctx context.Context, id int64) error {
	found, err := s.billRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NewNotFoundError("Bill")
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
