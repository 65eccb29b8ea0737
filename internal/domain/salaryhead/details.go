package salaryhead

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Details maps salary head id to amount. It is stored as JSON text
// {"<head id>": <number>}.
type Details map[int64]decimal.Decimal

// ParseDetails decodes the stored JSON text. An empty string is an empty map.
func ParseDetails(raw string) (Details, error) {
	if strings.TrimSpace(raw) == "" {
		return Details{}, nil
	}
	var d Details
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return d, nil
}

// UnmarshalJSON accepts the flat form as well as nested objects (for example a
// payload grouped by bucket); nested objects are merged into one flat map.
func (d *Details) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode salary details: %w", err)
	}

	out := Details{}
	switch x := v.(type) {
	case nil:
	case []any:
		if len(x) != 0 {
			return fmt.Errorf("salary details must be an object keyed by salary head id")
		}
	case map[string]any:
		if err := out.merge(x); err != nil {
			return err
		}
	default:
		return fmt.Errorf("salary details must be an object keyed by salary head id")
	}

	*d = out
	return nil
}

func (d Details) merge(obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if nested, ok := obj[key].(map[string]any); ok {
			if err := d.merge(nested); err != nil {
				return err
			}
			continue
		}

		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid salary head id %q", key)
		}
		amount, err := toAmount(obj[key])
		if err != nil {
			return fmt.Errorf("salary head %d: %w", id, err)
		}
		d[id] = amount
	}
	return nil
}

func toAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		if strings.TrimSpace(x) == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(strings.TrimSpace(x))
	default:
		return decimal.Zero, fmt.Errorf("amount must be numeric, got %T", v)
	}
}

func (d Details) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.Number, len(d))
	for id, amount := range d {
		out[strconv.FormatInt(id, 10)] = json.Number(amount.String())
	}
	return json.Marshal(out)
}

// Encode renders the storage form.
func (d Details) Encode() (string, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Value stores Details as JSON text.
func (d Details) Value() (driver.Value, error) {
	return d.Encode()
}

func (d Details) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range d {
		total = total.Add(amount)
	}
	return total
}

// IDs returns the head ids in ascending order.
func (d Details) IDs() []int64 {
	ids := make([]int64, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Equal compares amounts numerically.
func (d Details) Equal(other Details) bool {
	if len(d) != len(other) {
		return false
	}
	for id, amount := range d {
		o, ok := other[id]
		if !ok || !o.Equal(amount) {
			return false
		}
	}
	return true
}
