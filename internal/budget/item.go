package budget

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names read from or written to business items.
const (
	fieldYearlyPlan   = "yearlyPlan"
	fieldProgress     = "progress"
	fieldYearlyBudget = "yearlyBudget"
	fieldInitBalance  = "initialBalance"
	fieldPlan         = "plan"
)

// Item is one business record of a report payload. Field names vary by table.
type Item map[string]any

// clone returns a shallow copy so annotation never mutates the caller's payload.
func (it Item) clone() Item {
	out := make(Item, len(it)+2)
	for k, v := range it {
		out[k] = v
	}
	return out
}

// has reports whether field is present: set, non-nil and not a blank string.
// Falsy values such as "0" and 0 count as present.
func (it Item) has(field string) bool {
	_, ok := it.text(field)
	return ok
}

// text returns the string form of a present field.
func (it Item) text(field string) (string, bool) {
	raw, ok := it[field]
	if !ok || raw == nil {
		return "", false
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = strings.TrimSpace(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case json.Number:
		s = v.String()
	case bool:
		s = strconv.FormatBool(v)
	default:
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// lookup returns the first present field among fields, in priority order.
func (it Item) lookup(fields ...string) (string, bool) {
	for _, field := range fields {
		if s, ok := it.text(field); ok {
			return s, true
		}
	}
	return "", false
}

// number returns the numeric value of the first present field among fields,
// or 0 when none is present or the value does not parse.
func (it Item) number(fields ...string) float64 {
	for _, field := range fields {
		raw, ok := it[field]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return 0
			}
			return f
		case string:
			s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
			if s == "" {
				continue
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return 0
			}
			return d.InexactFloat64()
		}
	}
	return 0
}

// asItem converts a decoded JSON value to an Item when it is an object.
func asItem(v any) (Item, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return Item(obj), true
	case Item:
		return obj, true
	}
	return nil, false
}
