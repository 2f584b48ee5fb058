package entity

import (
	"fmt"
	"time"

	"github.com/meateat/pos-api/internal/domain/enum"
)

// Bill number formatting: fixed alphabetic prefix, zero-padded sequence.
const (
	BillNoPrefix = "ME"
	BillNoWidth  = 6
)

// FormatBillNo renders a sequence value as the external bill number,
// e.g. 42 -> "ME000042".
func FormatBillNo(seq int64) string {
	return fmt.Sprintf("%s%0*d", BillNoPrefix, BillNoWidth, seq)
}

// Bill is a finalized sale. All monetary fields are integer cents; derived
// fields (discount, total, line totals) are computed server-side and frozen
// at creation. A bill is never updated after it is written.
type Bill struct {
	ID               int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	BillNo           string           `gorm:"size:20;uniqueIndex;not null" json:"bill_no"`
	SubtotalCents    int64            `gorm:"not null;default:0" json:"subtotal_cents"`
	DiscountRateBps  int              `gorm:"not null;default:0" json:"discount_rate_bps"`
	DiscountCents    int64            `gorm:"not null;default:0" json:"discount_cents"`
	TotalCents       int64            `gorm:"not null;default:0" json:"total_cents"`
	PaymentMode      enum.PaymentMode `gorm:"size:10;not null;default:'cash'" json:"payment_mode"`
	SplitCashCents   int64            `gorm:"not null;default:0" json:"split_cash_cents"`
	SplitOnlineCents int64            `gorm:"not null;default:0" json:"split_online_cents"`
	CreatedAt        time.Time        `json:"created_at"`

	Items []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem is one product line within a bill. Product id, name and unit
// price are copied at sale time so later catalog edits never alter a
// historical bill.
type BillItem struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BillID         int64     `gorm:"not null;index" json:"bill_id"`
	ProductID      int64     `gorm:"not null" json:"product_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	LineTotalCents int64     `gorm:"not null" json:"line_total_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
