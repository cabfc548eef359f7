// Package format2 extracts purchase orders laid out as ruled tables: a header
// table, an address table and one or more article grids.
package format2

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal normalises a locale formatted number. Thousands commas and spaces
// are dropped. A single dot is a thousands separator when currency is set or
// when exactly three digits follow it; otherwise it is the decimal point.
// Several dots are always thousands separators. Unparseable input is zero.
func ToDecimal(s string, currency bool) decimal.Decimal {
	cleaned := strings.TrimSpace(strings.NewReplacer(",", "", " ", "").Replace(s))
	if cleaned == "" {
		return decimal.Zero
	}

	switch strings.Count(cleaned, ".") {
	case 0:
	case 1:
		_, frac, _ := strings.Cut(cleaned, ".")
		if currency || (len(frac) == 3 && isDigits(frac)) {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	default:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
