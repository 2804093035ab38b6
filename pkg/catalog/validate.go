package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flaboy/aira-catalog/pkg/errors"
)

// ParseRecord builds a Record from one sheet row (cells keyed by column
// name) and validates it. A failing row yields a ValidationError carrying
// the row number and code; the caller skips it and continues.
func ParseRecord(cells map[string]string, row int, imageDir string) (*Record, error) {
	code := strings.TrimSpace(cells[ColumnCode])
	name := strings.TrimSpace(cells[ColumnName])

	fail := func(msg string) error {
		return errors.New(errors.ValidationError, msg).WithRow(row, code)
	}

	if code == "" {
		return nil, fail("CODE is empty")
	}
	if name == "" {
		return nil, fail("NAME is empty")
	}

	price, err := ParseAmount(cells[ColumnPrice])
	if err != nil {
		return nil, fail("PRICE is not a number: " + cells[ColumnPrice])
	}
	if !price.IsPositive() {
		return nil, fail("PRICE must be positive, got " + price.String())
	}

	image := strings.TrimSpace(cells[ColumnImage])
	if image != "" {
		if st, err := os.Stat(filepath.Join(imageDir, image)); err != nil || st.IsDir() {
			return nil, fail("image file not found: " + image)
		}
	}

	return &Record{
		Row:             row,
		Code:            code,
		Name:            name,
		Description:     strings.TrimSpace(cells[ColumnDescription]),
		Price:           price,
		Image:           image,
		StripeProductID: strings.TrimSpace(cells[ColumnProductID]),
		StripePriceID:   strings.TrimSpace(cells[ColumnPriceID]),
	}, nil
}
