package utils

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the layout used when writing timestamps back out.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

var nullTokens = map[string]struct{}{
	"":      {},
	"NaN":   {},
	"nan":   {},
	"NA":    {},
	"NaT":   {},
	"null":  {},
	"NULL":  {},
	"None":  {},
	"<nil>": {},
}

// IsNull reports whether a raw cell stands for a missing value.
func IsNull(value string) bool {
	_, ok := nullTokens[strings.TrimSpace(value)]
	return ok
}

// ParseTimestamp parses a timezone-naive timestamp. Missing values give an
// invalid NullTime and no error; unparseable values give a *types.DateParseError.
func ParseTimestamp(column, value string) (sql.NullTime, error) {
	value = strings.TrimSpace(value)
	if IsNull(value) {
		return sql.NullTime{}, nil
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return sql.NullTime{Time: t, Valid: true}, nil
		}
	}

	// Zoned values keep their wall clock and drop the offset.
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		naive := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		return sql.NullTime{Time: naive, Valid: true}, nil
	}

	return sql.NullTime{}, &types.DateParseError{Column: column, Value: value}
}

// ParseDecimal parses a non-negative decimal amount.
func ParseDecimal(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if IsNull(value) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("negative amount %s", value)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// ParseCount parses a non-negative integer count. Integral floats such as
// "3.0" are accepted since exported tables often carry counts as floats.
func ParseCount(value string) (sql.NullInt64, error) {
	value = strings.TrimSpace(value)
	if IsNull(value) {
		return sql.NullInt64{}, nil
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		var ok bool
		if n, ok = integralFloat(value); !ok {
			return sql.NullInt64{}, fmt.Errorf("invalid count %q", value)
		}
	}
	if n < 0 {
		return sql.NullInt64{}, fmt.Errorf("negative count %q", value)
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

// ParseInt parses a signed integer.
func ParseInt(value string) (sql.NullInt64, error) {
	value = strings.TrimSpace(value)
	if IsNull(value) {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		var ok bool
		if n, ok = integralFloat(value); !ok {
			return sql.NullInt64{}, fmt.Errorf("invalid integer %q", value)
		}
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

// integralFloat converts a float rendering of a whole number that fits in an
// int64.
func integralFloat(value string) (int64, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	// -2^63 is exact in float64; 2^63 is the first value past the range.
	if f < math.MinInt64 || f >= -math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func ParseFloat(value string) (sql.NullFloat64, error) {
	value = strings.TrimSpace(value)
	if IsNull(value) {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}, fmt.Errorf("invalid number %q", value)
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

// NormalizeZipPrefix brings a postal-code prefix to its canonical form: a
// digit string left-padded with zeros to width. Integral float renderings
// ("1037.0") are accepted. ok is false when the value cannot be expressed
// canonically; missing values return "" and ok.
func NormalizeZipPrefix(value string, width int) (string, bool) {
	value = strings.TrimSpace(value)
	if IsNull(value) {
		return "", true
	}

	if i := strings.IndexByte(value, '.'); i >= 0 {
		if strings.Trim(value[i+1:], "0") != "" {
			return "", false
		}
		value = value[:i]
	}
	if value == "" {
		return "", false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	if width > 0 {
		if len(value) > width {
			trimmed := strings.TrimLeft(value, "0")
			if len(trimmed) > width {
				return "", false
			}
			value = trimmed
		}
		if len(value) < width {
			value = strings.Repeat("0", width-len(value)) + value
		}
	}
	return value, true
}

func FormatTimestamp(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(TimestampLayout)
}

func FormatInt(n sql.NullInt64) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func FormatFloat(f sql.NullFloat64) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}

func FormatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
