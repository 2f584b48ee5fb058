package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/meateat/pos-api/internal/domain/entity"
	"github.com/meateat/pos-api/internal/domain/enum"
	"github.com/meateat/pos-api/internal/domain/repository"
	"github.com/meateat/pos-api/pkg/pagination"
)

func TestCreateBillComputesTotals(t *testing.T) {
	svc, _ := newBillService(t)

	bill, err := svc.CreateBill(context.Background(), &CreateBillInput{
		Items: []BillItemInput{
			{ProductID: 1, Name: "Chicken Biryani", UnitPriceCents: 15000, Quantity: 2},
			{ProductID: 2, Name: "Lassi", UnitPriceCents: 5000, Quantity: 1},
		},
		DiscountRateBps: 500,
		PaymentMode:     enum.PaymentModeCash,
	})
	if err != nil {
		t.Fatalf("create bill failed: %v", err)
	}

	if bill.SubtotalCents != 35000 {
		t.Fatalf("expected subtotal 35000, got %d", bill.SubtotalCents)
	}
	if bill.DiscountCents != 1750 {
		t.Fatalf("expected discount 1750, got %d", bill.DiscountCents)
	}
	if bill.TotalCents != 33250 {
		t.Fatalf("expected total 33250, got %d", bill.TotalCents)
	}
	if bill.BillNo != "ME000001" {
		t.Fatalf("expected bill number ME000001, got %s", bill.BillNo)
	}
	if bill.SplitCashCents != 33250 || bill.SplitOnlineCents != 0 {
		t.Fatalf("cash mode should force split fields, got cash=%d online=%d",
			bill.SplitCashCents, bill.SplitOnlineCents)
	}
}

func TestCreateBillSplitPayment(t *testing.T) {
	svc, _ := newBillService(t)
	ctx := context.Background()

	items := []BillItemInput{
		{ProductID: 1, Name: "Chicken Biryani", UnitPriceCents: 15000, Quantity: 2},
		{ProductID: 2, Name: "Lassi", UnitPriceCents: 5000, Quantity: 1},
	}

	bill, err := svc.CreateBill(ctx, &CreateBillInput{
		Items:            items,
		DiscountRateBps:  500,
		PaymentMode:      enum.PaymentModeSplit,
		SplitCashCents:   20000,
		SplitOnlineCents: 13250,
	})
	if err != nil {
		t.Fatalf("exact split should be accepted: %v", err)
	}
	if bill.SplitCashCents != 20000 || bill.SplitOnlineCents != 13250 {
		t.Fatalf("split amounts not preserved: cash=%d online=%d",
			bill.SplitCashCents, bill.SplitOnlineCents)
	}

	_, err = svc.CreateBill(ctx, &CreateBillInput{
		Items:            items,
		DiscountRateBps:  500,
		PaymentMode:      enum.PaymentModeSplit,
		SplitCashCents:   20000,
		SplitOnlineCents: 13000,
	})
	if err == nil {
		t.Fatalf("mismatched split should be rejected, not rounded")
	}
}

func TestCreateBillOnlineForcesSplitFields(t *testing.T) {
	svc, _ := newBillService(t)

	bill, err := svc.CreateBill(context.Background(), &CreateBillInput{
		Items:       []BillItemInput{{ProductID: 1, Name: "Tea", UnitPriceCents: 2500, Quantity: 2}},
		PaymentMode: enum.PaymentModeOnline,
	})
	if err != nil {
		t.Fatalf("create bill failed: %v", err)
	}
	if bill.SplitCashCents != 0 || bill.SplitOnlineCents != bill.TotalCents {
		t.Fatalf("online mode should force split fields, got cash=%d online=%d total=%d",
			bill.SplitCashCents, bill.SplitOnlineCents, bill.TotalCents)
	}
}

func TestNormalizationClampsAndRecomputes(t *testing.T) {
	svc, _ := newBillService(t)

	bill, err := svc.CreateBill(context.Background(), &CreateBillInput{
		Items: []BillItemInput{
			{ProductID: 1, Name: "Zero Qty", UnitPriceCents: 1000, Quantity: 0},
			{ProductID: 2, Name: "Huge Qty", UnitPriceCents: 100, Quantity: 2000},
			{ProductID: 3, Name: "Fractional", UnitPriceCents: 150.9, Quantity: 1.7},
			{ProductID: 4, Name: "Negative Price", UnitPriceCents: -500, Quantity: 3},
		},
		PaymentMode: enum.PaymentModeCash,
	})
	if err != nil {
		t.Fatalf("create bill failed: %v", err)
	}
	if len(bill.Items) != 4 {
		t.Fatalf("expected 4 surviving items, got %d", len(bill.Items))
	}

	checks := []struct {
		qty   int
		price int64
		total int64
	}{
		{1, 1000, 1000},     // quantity clamps up to 1
		{1000, 100, 100000}, // quantity clamps down to 1000
		{1, 150, 150},       // price floors, quantity truncates
		{3, 0, 0},           // negative price coerces to zero
	}
	for i, want := range checks {
		item := bill.Items[i]
		if item.Quantity != want.qty || item.UnitPriceCents != want.price || item.LineTotalCents != want.total {
			t.Fatalf("item %d: got qty=%d price=%d total=%d, want qty=%d price=%d total=%d",
				i, item.Quantity, item.UnitPriceCents, item.LineTotalCents,
				want.qty, want.price, want.total)
		}
	}

	var subtotal int64
	for _, item := range bill.Items {
		subtotal += item.LineTotalCents
	}
	if bill.SubtotalCents != subtotal {
		t.Fatalf("subtotal %d does not match sum of line totals %d", bill.SubtotalCents, subtotal)
	}
}

func TestCreateBillDropsInvalidItems(t *testing.T) {
	svc, _ := newBillService(t)

	bill, err := svc.CreateBill(context.Background(), &CreateBillInput{
		Items: []BillItemInput{
			{ProductID: 0, Name: "No Product", UnitPriceCents: 1000, Quantity: 1},
			{ProductID: 2, Name: "   ", UnitPriceCents: 1000, Quantity: 1},
			{ProductID: 3, Name: "Kept", UnitPriceCents: 1000, Quantity: 1},
		},
		PaymentMode: enum.PaymentModeCash,
	})
	if err != nil {
		t.Fatalf("create bill failed: %v", err)
	}
	if len(bill.Items) != 1 || bill.Items[0].Name != "Kept" {
		t.Fatalf("expected only the valid item to survive, got %+v", bill.Items)
	}
}

func TestCreateBillRejectsWithoutValidItems(t *testing.T) {
	svc, db := newBillService(t)
	ctx := context.Background()

	if _, err := svc.CreateBill(ctx, &CreateBillInput{PaymentMode: enum.PaymentModeCash}); err == nil {
		t.Fatalf("empty item list should be rejected")
	}

	_, err := svc.CreateBill(ctx, &CreateBillInput{
		Items: []BillItemInput{
			{ProductID: 0, Name: "Bad", UnitPriceCents: 1000, Quantity: 1},
			{ProductID: 1, Name: "", UnitPriceCents: 1000, Quantity: 1},
		},
		PaymentMode: enum.PaymentModeCash,
	})
	if err == nil {
		t.Fatalf("all-invalid item list should be rejected")
	}

	var bills, items int64
	db.Model(&entity.Bill{}).Count(&bills)
	db.Model(&entity.BillItem{}).Count(&items)
	if bills != 0 || items != 0 {
		t.Fatalf("rejected requests must write nothing, got %d bills %d items", bills, items)
	}
}

func TestCreateBillRejectsUnknownPaymentMode(t *testing.T) {
	svc, _ := newBillService(t)

	_, err := svc.CreateBill(context.Background(), &CreateBillInput{
		Items:       []BillItemInput{{ProductID: 1, Name: "Tea", UnitPriceCents: 2500, Quantity: 1}},
		PaymentMode: enum.PaymentMode("card"),
	})
	if err == nil {
		t.Fatalf("unknown payment mode should be rejected")
	}
}

func TestSequentialBillNumbers(t *testing.T) {
	svc, _ := newBillService(t)
	ctx := context.Background()

	for i := 1; i <= 50; i++ {
		bill, err := svc.CreateBill(ctx, &CreateBillInput{
			Items:       []BillItemInput{{ProductID: 1, Name: "Tea", UnitPriceCents: 2500, Quantity: 1}},
			PaymentMode: enum.PaymentModeCash,
		})
		if err != nil {
			t.Fatalf("create bill %d failed: %v", i, err)
		}
		want := fmt.Sprintf("ME%06d", i)
		if bill.BillNo != want {
			t.Fatalf("expected bill number %s, got %s", want, bill.BillNo)
		}
	}
}

func TestConcurrentBillNumbersAreDistinct(t *testing.T) {
	svc, _ := newBillService(t)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan string, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bill, err := svc.CreateBill(context.Background(), &CreateBillInput{
				Items:       []BillItemInput{{ProductID: 1, Name: "Tea", UnitPriceCents: 2500, Quantity: 1}},
				PaymentMode: enum.PaymentModeCash,
			})
			if err != nil {
				errs <- err
				return
			}
			results <- bill.BillNo
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create failed: %v", err)
	}

	seen := make(map[string]bool)
	for no := range results {
		if seen[no] {
			t.Fatalf("duplicate bill number allocated concurrently: %s", no)
		}
		seen[no] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d bills, got %d", workers, len(seen))
	}
}

func TestDeleteBillCascadesToOwnItemsOnly(t *testing.T) {
	svc, db := newBillService(t)
	ctx := context.Background()

	first, err := svc.CreateBill(ctx, &CreateBillInput{
		Items:       []BillItemInput{{ProductID: 1, Name: "Tea", UnitPriceCents: 2500, Quantity: 2}},
		PaymentMode: enum.PaymentModeCash,
	})
	if err != nil {
		t.Fatalf("create first bill: %v", err)
	}
	second, err := svc.CreateBill(ctx, &CreateBillInput{
		Items:       []BillItemInput{{ProductID: 2, Name: "Coffee", UnitPriceCents: 3500, Quantity: 1}},
		PaymentMode: enum.PaymentModeCash,
	})
	if err != nil {
		t.Fatalf("create second bill: %v", err)
	}

	if err := svc.DeleteBill(ctx, first.ID); err != nil {
		t.Fatalf("delete bill: %v", err)
	}

	var orphaned int64
	db.Model(&entity.BillItem{}).Where("bill_id = ?", first.ID).Count(&orphaned)
	if orphaned != 0 {
		t.Fatalf("expected cascade to remove items of deleted bill, found %d", orphaned)
	}

	var remaining int64
	db.Model(&entity.BillItem{}).Where("bill_id = ?", second.ID).Count(&remaining)
	if remaining != 1 {
		t.Fatalf("cascade must not touch other bills' items, found %d", remaining)
	}

	if err := svc.DeleteBill(ctx, first.ID); err == nil {
		t.Fatalf("deleting a missing bill should report not found")
	}
}

func TestListBillsFiltersAndSwapsDates(t *testing.T) {
	svc, _ := newBillService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateBill(ctx, &CreateBillInput{
			Items:       []BillItemInput{{ProductID: 1, Name: "Tea", UnitPriceCents: 2500, Quantity: 1}},
			PaymentMode: enum.PaymentModeCash,
		}); err != nil {
			t.Fatalf("create bill: %v", err)
		}
	}

	result, err := svc.ListBills(ctx, &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2},
		Search:     "ME0000",
	})
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if result.Pagination.Total != 3 || len(result.Items) != 2 {
		t.Fatalf("expected total 3 with page of 2, got total=%d page=%d",
			result.Pagination.Total, len(result.Items))
	}

	none, err := svc.ListBills(ctx, &repository.BillFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     "XX",
	})
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if none.Pagination.Total != 0 {
		t.Fatalf("substring filter should match nothing, got %d", none.Pagination.Total)
	}

	// Reversed date range is swapped, not rejected.
	start := mustDate(t, "2030-01-01")
	end := mustDate(t, "2020-01-01")
	swapped, err := svc.ListBills(ctx, &repository.BillFilterParams{
		Pagination: pagination.DefaultPagination(),
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if swapped.Pagination.Total != 3 {
		t.Fatalf("swapped range should cover all bills, got %d", swapped.Pagination.Total)
	}
}

func TestDiscountRounding(t *testing.T) {
	cases := []struct {
		subtotal int64
		rateBps  int
		want     int64
	}{
		{35000, 500, 1750},
		{100, 50, 1},    // 0.5 rounds up (half away from zero)
		{100, 49, 0},    // 0.49 rounds down
		{0, 10000, 0},
		{99999, 10000, 99999},
		{333, 3333, 111}, // 110.98... rounds to 111
	}
	for _, tc := range cases {
		if got := discountFor(tc.subtotal, tc.rateBps); got != tc.want {
			t.Fatalf("discountFor(%d, %d) = %d, want %d", tc.subtotal, tc.rateBps, got, tc.want)
		}
	}
}
