package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ValueStatus is the resolution state of a host-owned value. There is no
// third state: a value the host never configured is represented by a nil
// *Field, not by a status.
type ValueStatus string

const (
	StatusLoading   ValueStatus = "loading"
	StatusAvailable ValueStatus = "available"
)

// Field is one host-owned async value. The host data layer resolves it on
// its own schedule and pushes the current state with each snapshot update;
// this service only inspects status and value, it never resolves anything
// itself.
type Field struct {
	Status ValueStatus `json:"status"`
	Value  interface{} `json:"value,omitempty"`
}

// Available builds a resolved field. Intended for tests and fixtures; real
// fields arrive from the host as JSON.
func Available(v interface{}) *Field {
	return &Field{Status: StatusAvailable, Value: v}
}

// Loading builds a configured-but-unresolved field.
func Loading() *Field {
	return &Field{Status: StatusLoading}
}

// Ready reports whether the field does not block readiness. A nil field was
// never configured and can never block.
func (f *Field) Ready() bool {
	return f == nil || f.Status != StatusLoading
}

// IsAvailable reports whether the field is configured and resolved.
func (f *Field) IsAvailable() bool {
	return f != nil && f.Status == StatusAvailable
}

// StringValue returns the resolved value as a string. The second return is
// false when the field is absent, loading, or holds a non-string value.
func (f *Field) StringValue() (string, bool) {
	if !f.IsAvailable() {
		return "", false
	}
	s, ok := f.Value.(string)
	return s, ok
}

// BoolValue returns the resolved value as a bool.
func (f *Field) BoolValue() (bool, bool) {
	if !f.IsAvailable() {
		return false, false
	}
	b, ok := f.Value.(bool)
	return b, ok
}

// DecimalValue returns the resolved value as a decimal. Amounts arrive from
// JSON as numbers or numeric strings depending on the host data layer, so
// both are accepted.
func (f *Field) DecimalValue() (decimal.Decimal, bool) {
	if !f.IsAvailable() {
		return decimal.Decimal{}, false
	}
	switch v := f.Value.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		if v == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case decimal.Decimal:
		return v, true
	}
	return decimal.Decimal{}, false
}

// Row is one opaque row handle from a host collection: a bag of named async
// attributes. Accessors resolve a semantic name (amount, label, quantity)
// to one of these attributes.
type Row map[string]*Field

// RowList is a host collection of rows. The whole list resolves as a unit;
// row order is host display order and is preserved everywhere downstream.
type RowList struct {
	Status ValueStatus `json:"status"`
	Items  []Row       `json:"items,omitempty"`
}

// Ready reports whether the collection does not block readiness.
func (l *RowList) Ready() bool {
	return l == nil || l.Status != StatusLoading
}
