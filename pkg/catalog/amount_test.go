package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain decimal", input: "19.99", want: "19.99"},
		{name: "sub-dollar", input: "0.1", want: "0.1"},
		{name: "integer", input: "25", want: "25"},
		{name: "currency symbol", input: "$19.99", want: "19.99"},
		{name: "thousand comma", input: "1,234.56", want: "1234.56"},
		{name: "european separators", input: "1.234,56", want: "1234.56"},
		{name: "negative", input: "-3.50", want: "-3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "abc", "--", "."} {
		_, err := ParseAmount(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestUnitAmount(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{price: "19.99", want: 1999},
		{price: "0.1", want: 10},
		{price: "100", want: 10000},
		{price: "0.005", want: 1}, // half-cent rounds away from zero
		{price: "2499.99", want: 249999},
	}

	for _, tt := range tests {
		r := Record{Price: decimal.RequireFromString(tt.price)}
		assert.Equal(t, tt.want, r.UnitAmount(), "price %s", tt.price)
	}
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, "19.99", MajorUnits(1999).String())
	assert.Equal(t, "0.1", MajorUnits(10).String())
	assert.Equal(t, "25", MajorUnits(2500).String())
}
