package records

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func decimalOf(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case string:
		return decimal.NewFromString(x)
	case []byte:
		return decimal.NewFromString(string(x))
	case float64:
		return decimal.NewFromFloat(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	default:
		return decimal.NewFromString(fmt.Sprint(x))
	}
}

func int64Of(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected integer type %T", v)
	}
}

func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func boolOf(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case int:
		return x != 0
	case string:
		b, _ := strconv.ParseBool(x)
		return b
	default:
		return false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func timeOf(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x.UTC(), nil
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", x)
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

// decoder collects the first conversion error while reading a row.
type decoder struct {
	err error
}

func (d *decoder) fail(col string, err error) {
	if d.err == nil && err != nil {
		d.err = fmt.Errorf("%w: column %s: %v", ErrMalformedRow, col, err)
	}
}

func (d *decoder) int64(row map[string]any, col string) int64 {
	v, err := int64Of(row[col])
	d.fail(col, err)
	return v
}

func (d *decoder) decimal(row map[string]any, col string) decimal.Decimal {
	v, err := decimalOf(row[col])
	d.fail(col, err)
	return v
}

func (d *decoder) time(row map[string]any, col string) time.Time {
	v, err := timeOf(row[col])
	d.fail(col, err)
	return v
}
