package cart

import (
	"regexp"

	"github.com/bazarly/storefront-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

var priceSanitizer = regexp.MustCompile(`[^0-9.\-]`)

// ParsePrice extracts a decimal amount from a platform price string. Currency
// symbols and thousands separators are stripped ("৳1,200.50" parses as
// 1200.50); anything still malformed after stripping degrades to zero so
// totals recomputation never fails on dirty catalog data.
func ParsePrice(raw string) decimal.Decimal {
	cleaned := priceSanitizer.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

func effectiveUnitPrice(p catalog.Product) decimal.Decimal {
	return ParsePrice(p.EffectiveUnitPriceString())
}
