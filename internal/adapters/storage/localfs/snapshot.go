package localfs

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"shopify-pricer/internal/domain/model"
)

// SnapshotStore reads and writes {"title": basePrice} backups.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) Path() string {
	return s.path
}

func (s *SnapshotStore) Load() (model.PriceBackupSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.Number
	if err := decodeNumbers(s.path, data, &raw); err != nil {
		return nil, err
	}
	snapshot := make(model.PriceBackupSnapshot, len(raw))
	for title, number := range raw {
		value, err := decimal.NewFromString(number.String())
		if err != nil {
			return nil, fmt.Errorf("decode %s: %q: %w", s.path, title, err)
		}
		snapshot[title] = value
	}
	return snapshot, nil
}

func (s *SnapshotStore) Save(snapshot model.PriceBackupSnapshot) error {
	raw := make(map[string]json.Number, len(snapshot))
	for title, value := range snapshot {
		raw[title] = json.Number(value.String())
	}
	data, err := encodeIndented(raw)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}
