package sqlite

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// document stores an embedded value as a JSON column. The zero value of T
// is written as-is, so nil slices become "null" and read back as nil.
type document[T any] struct {
	V T
}

func doc[T any](v T) document[T] { return document[T]{V: v} }

// Value implements driver.Valuer.
func (d document[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(d.V)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *document[T]) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		var zero T
		d.V = zero
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported document type %T", value)
	}
	if err := json.Unmarshal(raw, &d.V); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
