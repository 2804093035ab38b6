package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaboy/aira-catalog/pkg/errors"
)

func testImageDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.png"), []byte("png-bytes"), 0o644))
	return dir
}

func validCells() map[string]string {
	return map[string]string{
		ColumnCode:        "SKU-1",
		ColumnName:        "Widget",
		ColumnDescription: "A widget",
		ColumnPrice:       "19.99",
		ColumnImage:       "widget.png",
	}
}

func TestParseRecordValid(t *testing.T) {
	dir := testImageDir(t)

	rec, err := ParseRecord(validCells(), 2, dir)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", rec.Code)
	assert.Equal(t, "Widget", rec.Name)
	assert.Equal(t, int64(1999), rec.UnitAmount())
	assert.Equal(t, "widget.png", rec.Image)
	assert.False(t, rec.Reconciled())
}

func TestParseRecordFailures(t *testing.T) {
	dir := testImageDir(t)

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{name: "empty code", mutate: func(c map[string]string) { c[ColumnCode] = "  " }},
		{name: "empty name", mutate: func(c map[string]string) { c[ColumnName] = "" }},
		{name: "price not a number", mutate: func(c map[string]string) { c[ColumnPrice] = "free" }},
		{name: "price zero", mutate: func(c map[string]string) { c[ColumnPrice] = "0" }},
		{name: "price negative", mutate: func(c map[string]string) { c[ColumnPrice] = "-5.00" }},
		{name: "image file missing", mutate: func(c map[string]string) { c[ColumnImage] = "nope.png" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := validCells()
			tt.mutate(cells)

			_, err := ParseRecord(cells, 7, dir)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.ValidationError), "kind = %v", errors.KindOf(err))
			assert.Equal(t, 7, err.(*errors.SyncError).Row)
		})
	}
}

func TestParseRecordEmptyImageIsNotAValidationError(t *testing.T) {
	dir := testImageDir(t)
	cells := validCells()
	cells[ColumnImage] = ""

	// Rows without an image reference are the pipeline's skip case, not
	// a validation failure.
	rec, err := ParseRecord(cells, 3, dir)
	require.NoError(t, err)
	assert.Empty(t, rec.Image)
}

func TestReconciled(t *testing.T) {
	rec := Record{StripeProductID: "prod_1"}
	assert.False(t, rec.Reconciled())

	rec.StripePriceID = "price_1"
	assert.True(t, rec.Reconciled())
}
