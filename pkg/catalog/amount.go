package catalog

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type separator int

const (
	separatorDot separator = iota
	separatorComma
	separatorUnknown
)

func guessThousandSeparator(input string) separator {
	dotCount := strings.Count(input, ".")
	commaCount := strings.Count(input, ",")

	// 25,234,233.8 / 25.234.233,8
	if dotCount > 0 && commaCount > 0 {
		if dotCount > commaCount {
			return separatorDot
		}
		return separatorComma
	}

	// 25.233 / 25,233
	if dotCount == 0 && commaCount == 1 {
		return separatorDot
	} else if dotCount == 1 && commaCount == 0 {
		return separatorComma
	}

	// 25.233.812 / 25,233,821
	if dotCount > 1 {
		return separatorDot
	}
	if commaCount > 1 {
		return separatorComma
	}

	return separatorUnknown
}

// ParseAmount parses a sheet price cell into a decimal, tolerating
// currency symbols and either separator convention.
func ParseAmount(input string) (decimal.Decimal, error) {
	input = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, input)

	switch guessThousandSeparator(input) {
	case separatorDot:
		input = strings.ReplaceAll(input, ".", "")
		input = strings.ReplaceAll(input, ",", ".")
	case separatorComma:
		input = strings.ReplaceAll(input, ",", "")
	}

	return decimal.NewFromString(input)
}

// MajorUnits converts a minor-unit amount back to the display price.
func MajorUnits(unitAmount int64) decimal.Decimal {
	return decimal.NewFromInt(unitAmount).Div(dec100)
}
