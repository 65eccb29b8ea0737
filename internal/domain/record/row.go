package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one result row keyed by output column name.
type Row map[string]any

func (r Row) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// IsNull reports whether the key is missing or holds nil.
func (r Row) IsNull(key string) bool {
	return r[key] == nil
}

// ID returns the primary key of the row.
func (r Row) ID() int64 {
	return r.Int64("id")
}

func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (r Row) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case decimal.Decimal:
		return v.IntPart()
	default:
		return 0
	}
}

func (r Row) Decimal(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case decimal.Decimal:
		return v
	case string:
		d, _ := decimal.NewFromString(v)
		return d
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case int32:
		return decimal.NewFromInt32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case json.Number:
		d, _ := decimal.NewFromString(v.String())
		return d
	default:
		return decimal.Zero
	}
}

func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return r.Int64(key) != 0
	}
}

// Time returns the value as time.Time; ok is false for NULL or non-time values.
func (r Row) Time(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Date formats a date column as YYYY-MM-DD, or "" when NULL.
func (r Row) Date(key string) string {
	t, ok := r.Time(key)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// Clone makes a shallow copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies fragment into the row, overwriting existing keys.
func (r Row) Merge(fragment Row) {
	for k, v := range fragment {
		r[k] = v
	}
}
