package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/meateat/pos-api/internal/application/service"
	"github.com/meateat/pos-api/internal/domain/enum"
	"github.com/meateat/pos-api/internal/domain/repository"
	"github.com/meateat/pos-api/internal/presentation/http/dto/response"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService     *service.BillService
	settingsService *service.SettingsService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService, settingsService *service.SettingsService) *BillHandler {
	return &BillHandler{
		billService:     billService,
		settingsService: settingsService,
	}
}

// Create handles creating a bill
func (h *BillHandler) Create(c *gin.Context) {
	var req struct {
		Items []struct {
			ProductID      int64   `json:"product_id"`
			Name           string  `json:"name"`
			UnitPriceCents float64 `json:"unit_price_cents"`
			Quantity       float64 `json:"quantity"`
		} `json:"items" binding:"required"`
		DiscountRateBps  *int   `json:"discount_rate_bps"`
		PaymentMode      string `json:"payment_mode"`
		SplitCashCents   int64  `json:"split_cash_cents"`
		SplitOnlineCents int64  `json:"split_online_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.BillItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BillItemInput{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		}
	}

	mode := req.PaymentMode
	if mode == "" {
		mode = string(enum.PaymentModeCash)
	}

	// An omitted discount rate means "use the configured default"; an
	// explicit zero means no discount.
	var rate int
	if req.DiscountRateBps != nil {
		rate = *req.DiscountRateBps
	} else {
		var err error
		rate, err = h.settingsService.DefaultDiscountBps(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		Items:            items,
		DiscountRateBps:  rate,
		PaymentMode:      enum.PaymentMode(mode),
		SplitCashCents:   req.SplitCashCents,
		SplitOnlineCents: req.SplitOnlineCents,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// List handles listing bills with pagination and filters
func (h *BillHandler) List(c *gin.Context) {
	params := &repository.BillFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
	}

	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}
	params.StartDate = start
	params.EndDate = end

	result, err := h.billService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Get handles getting a single bill with its line items
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Delete handles deleting a bill and its line items
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill deleted successfully", nil)
}
