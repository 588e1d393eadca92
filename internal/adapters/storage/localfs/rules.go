package localfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/domain/model"
)

// RuleTableStore persists the price-rule table as
// {"category": {"label": surcharge}}.
type RuleTableStore struct {
	path string
}

func NewRuleTableStore(path string) *RuleTableStore {
	return &RuleTableStore{path: path}
}

func (s *RuleTableStore) Path() string {
	return s.path
}

// Load returns an empty table with the known categories when the file does
// not exist yet.
func (s *RuleTableStore) Load() (model.PriceRuleTable, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewPriceRuleTable(), nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]map[string]json.Number
	if err := decodeNumbers(s.path, data, &raw); err != nil {
		return nil, err
	}

	table := make(model.PriceRuleTable, len(raw))
	for category, labels := range raw {
		parsed := make(map[string]decimal.Decimal, len(labels))
		for label, number := range labels {
			value, err := decimal.NewFromString(number.String())
			if err != nil {
				return nil, fmt.Errorf("decode %s: %s/%s: %w", s.path, category, label, err)
			}
			parsed[label] = value
		}
		table[category] = parsed
	}
	return table, nil
}

func (s *RuleTableStore) Save(table model.PriceRuleTable) error {
	raw := make(map[string]map[string]json.Number, len(table))
	for category, labels := range table {
		encoded := make(map[string]json.Number, len(labels))
		for label, value := range labels {
			encoded[label] = json.Number(value.String())
		}
		raw[category] = encoded
	}
	data, err := encodeIndented(raw)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}
