package pricing

import "fmt"

// DataError marks a single malformed item (base price, operator input). The
// item is skipped; the surrounding batch carries on.
type DataError struct {
	Subject string
	Value   string
	Reason  string
}

func (e *DataError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Subject, e.Value, e.Reason)
}
