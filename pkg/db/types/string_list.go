package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSON-encoded list of short strings (program codes,
// free-form tags). Decoding happens only at the storage boundary; the
// rest of the engine sees a plain slice.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Contains reports whether the list holds value.
func (l StringList) Contains(value string) bool {
	for _, entry := range l {
		if entry == value {
			return true
		}
	}
	return false
}

// AddUnique appends value unless it is already present.
func (l StringList) AddUnique(value string) StringList {
	if l.Contains(value) {
		return l
	}
	return append(l, value)
}
