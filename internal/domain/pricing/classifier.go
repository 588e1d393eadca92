package pricing

import (
	"github.com/shopspring/decimal"

	"shopify-pricer/internal/domain/model"
)

// Eligibility decides which products reach classification at all.
type Eligibility string

const (
	EligibleTagged Eligibility = "tagged"
	EligibleAll    Eligibility = "all"
)

func (e Eligibility) Allows(product model.Product) bool {
	if e == EligibleAll {
		return true
	}
	return product.HasTag(model.EligibilityTag)
}

// Category returns the first known category tagged on the product, bracelet
// before collier. ok is false when none match.
func Category(product model.Product) (string, bool) {
	for _, category := range model.Categories {
		if product.HasTag(category) {
			return category, true
		}
	}
	return "", false
}

// VariantPrice pairs a variant with the price it should carry.
type VariantPrice struct {
	VariantID    string
	VariantTitle string
	Price        decimal.Decimal
}

// Calculator turns products into target variant prices using one rule table.
type Calculator struct {
	rules model.PriceRuleTable
}

func NewCalculator(rules model.PriceRuleTable) *Calculator {
	if rules == nil {
		rules = model.NewPriceRuleTable()
	}
	return &Calculator{rules: rules}
}

// Surcharge matches the variant title exactly, case included. Unknown titles
// carry no surcharge.
func (c *Calculator) Surcharge(category, variantTitle string) decimal.Decimal {
	return c.rules[category][variantTitle]
}

// HasRules reports whether the category has at least one label.
func (c *Calculator) HasRules(category string) bool {
	return len(c.rules[category]) > 0
}

// Prices yields the target price of every variant of a classified product
// with a base price. A category without labels prices nothing.
func (c *Calculator) Prices(product model.Product) []VariantPrice {
	if product.BasePrice == nil {
		return nil
	}
	category, ok := Category(product)
	if !ok || !c.HasRules(category) {
		return nil
	}
	base := product.BasePrice.Value
	prices := make([]VariantPrice, 0, len(product.Variants))
	for _, variant := range product.Variants {
		prices = append(prices, VariantPrice{
			VariantID:    variant.ID,
			VariantTitle: variant.Title,
			Price:        FinalPrice(base, c.Surcharge(category, variant.Title)),
		})
	}
	return prices
}

func FinalPrice(base, surcharge decimal.Decimal) decimal.Decimal {
	return base.Add(surcharge).Round(2)
}

// FormatMoney renders an amount the way Shopify expects it on the wire.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ParseBasePrice parses a metafield value. Empty or non-numeric values are
// a DataError.
func ParseBasePrice(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &DataError{Subject: "base price", Value: raw, Reason: "not a decimal"}
	}
	if value.IsNegative() {
		return decimal.Zero, &DataError{Subject: "base price", Value: raw, Reason: "negative"}
	}
	return value, nil
}
