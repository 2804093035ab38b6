package catalog

import (
	"github.com/shopspring/decimal"
)

// Column names of the catalog workbook, sheet 1, in fixed order.
const (
	ColumnCode        = "CODE"
	ColumnName        = "NAME"
	ColumnDescription = "DESCRIPTION"
	ColumnPrice       = "PRICE"
	ColumnImage       = "IMAGE"
	ColumnProductID   = "STRIPE_PRODUCT_ID"
	ColumnPriceID     = "STRIPE_PRICE_ID"
)

// RequiredColumns must all be present before import touches any row.
var RequiredColumns = []string{
	ColumnCode, ColumnName, ColumnDescription, ColumnPrice, ColumnImage,
}

// LedgerColumns hold the written-back Stripe ids. Created on import when
// absent, always appended after the existing columns.
var LedgerColumns = []string{ColumnProductID, ColumnPriceID}

// AllColumns is the full export header.
var AllColumns = append(append([]string{}, RequiredColumns...), LedgerColumns...)

var dec100 = decimal.NewFromInt(100)

// Record is one catalog row in canonical form.
type Record struct {
	Row         int // 1-based sheet row
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string // filename under the image directory

	// Populated only after a successful import of this row.
	StripeProductID string
	StripePriceID   string
}

// Reconciled reports whether this row already carries both Stripe ids.
// Reconciled rows are skipped on import regardless of other field
// changes; the ids are never overwritten.
func (r *Record) Reconciled() bool {
	return r.StripeProductID != "" && r.StripePriceID != ""
}

// UnitAmount converts the display price to the smallest currency unit:
// round(price * 100), computed on decimals so cents never drift.
func (r *Record) UnitAmount() int64 {
	return r.Price.Mul(dec100).Round(0).IntPart()
}
