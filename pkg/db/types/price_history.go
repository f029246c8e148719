package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one observed price for a product on a given date.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// PriceHistory is the append-only sequence of observed prices, stored as
// a JSON column. Entries are non-decreasing in Date and the final entry
// always matches the product's current unit price.
type PriceHistory []PricePoint

// Value implements driver.Valuer.
func (h PriceHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (h *PriceHistory) Scan(value any) error {
	if value == nil {
		*h = PriceHistory{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("price history: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*h = PriceHistory{}
		return nil
	}
	return json.Unmarshal(raw, h)
}

// Last returns the most recent price point.
func (h PriceHistory) Last() (PricePoint, bool) {
	if len(h) == 0 {
		return PricePoint{}, false
	}
	return h[len(h)-1], true
}

// Append adds a point, keeping the sequence ordered by date. Callers are
// expected to reject out-of-order points before appending.
func (h PriceHistory) Append(date time.Time, price decimal.Decimal) PriceHistory {
	return append(h, PricePoint{Date: date, Price: price})
}
