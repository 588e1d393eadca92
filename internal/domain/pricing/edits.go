package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/domain/model"
)

// SurchargeEdit is one operator-submitted value for a category/label pair.
// Empty Value leaves the existing surcharge untouched.
type SurchargeEdit struct {
	Category string
	Label    string
	Value    string
}

// ApplyEdits returns a copy of table with every valid edit applied. Invalid
// edits are reported and skipped; they never discard the valid ones.
func ApplyEdits(table model.PriceRuleTable, edits []SurchargeEdit) (model.PriceRuleTable, []error) {
	out := table.Clone()
	var problems []error
	for _, edit := range edits {
		category := strings.ToLower(strings.TrimSpace(edit.Category))
		label := strings.TrimSpace(edit.Label)
		raw := strings.TrimSpace(edit.Value)
		if raw == "" {
			continue
		}
		if _, exists := out[category]; !exists && !knownCategory(category) {
			problems = append(problems, &DataError{Subject: "category", Value: edit.Category, Reason: "unknown category"})
			continue
		}
		if label == "" {
			problems = append(problems, &DataError{Subject: "variant label", Reason: "empty label in " + category})
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			problems = append(problems, &DataError{Subject: "price for '" + label + "' in '" + category + "'", Value: raw, Reason: "not a number"})
			continue
		}
		if out[category] == nil {
			out[category] = map[string]decimal.Decimal{}
		}
		out[category][label] = value
	}
	return out, problems
}

func knownCategory(category string) bool {
	for _, known := range model.Categories {
		if known == category {
			return true
		}
	}
	return false
}

// ParseSurchargeEdit reads the command-line form category/label=value. The
// label may itself contain '/'; the value is everything after the last '='.
func ParseSurchargeEdit(raw string) (SurchargeEdit, error) {
	eq := strings.LastIndexByte(raw, '=')
	if eq < 0 {
		return SurchargeEdit{}, &DataError{Subject: "edit", Value: raw, Reason: "expected category/label=value"}
	}
	key, value := raw[:eq], raw[eq+1:]
	slash := strings.IndexByte(key, '/')
	if slash <= 0 || slash == len(key)-1 {
		return SurchargeEdit{}, &DataError{Subject: "edit", Value: raw, Reason: "expected category/label=value"}
	}
	return SurchargeEdit{
		Category: key[:slash],
		Label:    key[slash+1:],
		Value:    value,
	}, nil
}
