package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind tags which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumeric
	KindBoolean
	KindFloat
)

// Value is a single scalar cell of a flattened row. The zero Value is null.
// Numeric values keep their exact decimal form; KindFloat is reserved for
// geocoder coordinates.
type Value struct {
	kind Kind
	text string
	num  decimal.Decimal
	b    bool
	f    float64
}

func Null() Value { return Value{} }
func Text(s string) Value { return Value{kind: KindText, text: s} }
func Numeric(d decimal.Decimal) Value { return Value{kind: KindNumeric, num: d} }
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// String renders the value for a CSV cell. Null renders as an empty cell.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumeric:
		return v.num.String()
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return ""
	}
}

// Decimal returns the numeric payload, if any.
func (v Value) Decimal() (decimal.Decimal, bool) {
	return v.num, v.kind == KindNumeric
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumeric:
		return v.num.Equal(o.num)
	case KindBoolean:
		return v.b == o.b
	case KindFloat:
		return v.f == o.f
	}
	return true
}

// UnmarshalJSON accepts any JSON scalar. Objects and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("value: empty input")
	}
	switch data[0] {
	case 'n':
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("value: %w", err)
		}
		*v = Boolean(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("value: %w", err)
		}
		*v = Text(s)
	case '{', '[':
		return fmt.Errorf("value: expected scalar, got %q", data[:1])
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		*v = Numeric(d)
	}
	return nil
}
