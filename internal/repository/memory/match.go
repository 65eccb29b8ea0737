package memory

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/shopspring/decimal"
)

func matchesCriteria(row record.Row, criteria record.Criteria) bool {
	for col, v := range criteria {
		if c, ok := compare(row[col], v); !ok || c != 0 {
			return false
		}
	}
	return true
}

// matchesConditions evaluates conditions left to right with equal precedence.
func matchesConditions(row record.Row, conds []record.Condition) bool {
	if len(conds) == 0 {
		return true
	}
	result := matches(row, conds[0])
	for _, c := range conds[1:] {
		if c.Combinator == record.Or {
			result = result || matches(row, c)
		} else {
			result = result && matches(row, c)
		}
	}
	return result
}

func matches(row record.Row, c record.Condition) bool {
	v := row[c.Column]
	switch c.Operator {
	case record.OpIsNull:
		return v == nil
	case record.OpIsNotNull:
		return v != nil
	case record.OpIn, record.OpNotIn:
		found := false
		rv := reflect.ValueOf(c.Value)
		for i := 0; rv.Kind() == reflect.Slice && i < rv.Len(); i++ {
			if cmp, ok := compare(v, rv.Index(i).Interface()); ok && cmp == 0 {
				found = true
				break
			}
		}
		return found == (c.Operator == record.OpIn)
	case record.OpLike, record.OpILike:
		needle := strings.ToLower(strings.Trim(toString(c.Value), "%"))
		return strings.Contains(strings.ToLower(row.String(c.Column)), needle)
	}

	cmp, ok := compare(v, c.Value)
	if !ok {
		return false
	}
	switch c.Operator {
	case record.OpNotEq, "<>":
		return cmp != 0
	case record.OpLt:
		return cmp < 0
	case record.OpLte:
		return cmp <= 0
	case record.OpGt:
		return cmp > 0
	case record.OpGte:
		return cmp >= 0
	default:
		return cmp == 0
	}
}

func matchesRanges(row record.Row, ranges []record.Range) bool {
	for _, r := range ranges {
		lo, ok1 := compare(row[r.Column], r.Start)
		hi, ok2 := compare(row[r.Column], r.End)
		if !ok1 || !ok2 || lo < 0 || hi > 0 {
			return false
		}
	}
	return true
}

// compare orders two values of compatible kinds; ok is false otherwise.
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, a == nil && b == nil
	}
	if x, ok := toDecimal(a); ok {
		if y, ok := toDecimal(b); ok {
			return x.Cmp(y), true
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return strings.Compare(toString(a), toString(b)), true
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	}
	return decimal.Decimal{}, false
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
