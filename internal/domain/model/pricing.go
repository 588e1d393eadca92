package model

import (
	"github.com/shopspring/decimal"
)

// PriceRuleTable maps a category to its variant-label surcharges.
type PriceRuleTable map[string]map[string]decimal.Decimal

const (
	CategoryBracelet = "bracelet"
	CategoryCollier  = "collier"

	EligibilityTag = "chaine_update"
)

// Categories lists the known categories in classification priority order.
var Categories = []string{CategoryBracelet, CategoryCollier}

func NewPriceRuleTable() PriceRuleTable {
	table := make(PriceRuleTable, len(Categories))
	for _, category := range Categories {
		table[category] = map[string]decimal.Decimal{}
	}
	return table
}

// Clone returns a deep copy so edits never alias the loaded table.
func (t PriceRuleTable) Clone() PriceRuleTable {
	out := make(PriceRuleTable, len(t))
	for category, labels := range t {
		copied := make(map[string]decimal.Decimal, len(labels))
		for label, surcharge := range labels {
			copied[label] = surcharge
		}
		out[category] = copied
	}
	return out
}

type BulkUpdateRecord struct {
	VariantID string
	Price     decimal.Decimal
}

// PriceBackupSnapshot maps product title to base price.
type PriceBackupSnapshot map[string]decimal.Decimal
