package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as seen by the pricing engine. IDs are the REST
// numeric id or the GraphQL gid depending on which surface produced it.
type Product struct {
	ID        string
	Title     string
	Tags      []string
	Variants  []Variant
	BasePrice *BasePrice
}

// Variant.PriceMalformed is set when the shop returned a price that does not
// parse; Price is zero then.
type Variant struct {
	ID             string
	Title          string
	Price          decimal.Decimal
	PriceMalformed bool
}

// BasePrice is the custom.base_price metafield of a product. MetafieldID is
// empty when the value came from a source that does not expose it.
type BasePrice struct {
	MetafieldID string
	Value       decimal.Decimal
}

const (
	BasePriceNamespace = "custom"
	BasePriceKey       = "base_price"
	BasePriceType      = "number_decimal"
)

// HasTag reports whether tag is present, ignoring case and surrounding spaces.
func (p Product) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range p.Tags {
		if strings.ToLower(strings.TrimSpace(t)) == tag {
			return true
		}
	}
	return false
}

// SplitTags parses the comma separated tag string returned by the REST API.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tags = append(tags, part)
	}
	return tags
}
