package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/domain/model"
)

// NiceRound snaps the last two digits of the integer part to 00 or 90:
// remainders up to 40 round down to the hundred, up to 90 go to x90, and
// anything above rounds up to the next hundred.
func NiceRound(price int64) int64 {
	remainder := price % 100
	switch {
	case remainder <= 40:
		return price - remainder
	case remainder <= 90:
		return price - remainder + 90
	default:
		return price - remainder + 100
	}
}

// AdjustedBasePrice applies a percentage change to a variant price and nice
// rounds the result.
func AdjustedBasePrice(variantPrice, percentage decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(percentage.Div(decimal.NewFromInt(100)))
	scaled := variantPrice.Mul(factor).Truncate(0)
	return decimal.NewFromInt(NiceRound(scaled.IntPart()))
}

// OriginalPrice is the first variant's price, the reference for an
// adjustment. A product without variants or with a malformed first price is
// a DataError.
func OriginalPrice(product model.Product) (decimal.Decimal, error) {
	if len(product.Variants) == 0 {
		return decimal.Zero, &DataError{Subject: "variant price", Reason: "product has no variants"}
	}
	variant := product.Variants[0]
	if variant.PriceMalformed {
		return decimal.Zero, &DataError{Subject: "price of variant " + variant.ID, Reason: "not a decimal"}
	}
	return variant.Price, nil
}

// ParseVariantPrice parses a variant price as returned by the shop.
func ParseVariantPrice(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &DataError{Subject: "variant price", Value: raw, Reason: "not a decimal"}
	}
	return value, nil
}

// ParsePercentage validates an operator supplied percentage such as "12.5"
// or "-10". Results below -100% are rejected.
func ParsePercentage(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &DataError{Subject: "percentage", Value: raw, Reason: "not a decimal"}
	}
	if value.LessThan(decimal.NewFromInt(-100)) {
		return decimal.Zero, &DataError{Subject: "percentage", Value: raw, Reason: "below -100"}
	}
	return value, nil
}
