package queryspec

import (
	"strconv"
	"strings"

	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// Expr is a sealed interface over grouping expressions. All expressions
// are pure and evaluated per raw row before grouping. Only Field, YearOf,
// MonthOf, HourOf, and AgeBucket implement it.
type Expr interface {
	expr() // Sealed - only these types implement it

	// ColumnName is the result header name for this expression.
	ColumnName() string

	// Eval computes the group-key cell for a row. Null in, Null out;
	// unparseable source cells also evaluate to Null rather than erroring.
	Eval(row table.Row) value.Value

	// FieldName returns the dataset column the expression reads.
	FieldName() string
}

// Field passes a column through unchanged.
type Field struct {
	Name string
}

func (Field) expr() {}

func (e Field) ColumnName() string             { return e.Name }
func (e Field) FieldName() string              { return e.Name }
func (e Field) Eval(row table.Row) value.Value { return row.Get(e.Name) }

// YearOf truncates an ISO date column to its year, as an Int.
type YearOf struct {
	Field string
}

func (YearOf) expr() {}

func (e YearOf) ColumnName() string { return "year" }
func (e YearOf) FieldName() string  { return e.Field }

func (e YearOf) Eval(row table.Row) value.Value {
	y, _, ok := splitISODate(row.Get(e.Field))
	if !ok {
		return value.Null{}
	}
	return value.Int(y)
}

// MonthOf truncates an ISO date column to "2006-01" form.
type MonthOf struct {
	Field string
}

func (MonthOf) expr() {}

func (e MonthOf) ColumnName() string { return "month" }
func (e MonthOf) FieldName() string  { return e.Field }

func (e MonthOf) Eval(row table.Row) value.Value {
	_, ym, ok := splitISODate(row.Get(e.Field))
	if !ok {
		return value.Null{}
	}
	return value.String(ym)
}

// HourOf extracts the hour of day from a time-of-day column.
// Accepts "HH:MM", "HH:MM:SS", bare "HHMM" digits (the common police
// extract form), and integer HHMM cells.
type HourOf struct {
	Field string
}

func (HourOf) expr() {}

func (e HourOf) ColumnName() string { return "hour" }
func (e HourOf) FieldName() string  { return e.Field }

func (e HourOf) Eval(row table.Row) value.Value {
	switch cell := row.Get(e.Field).(type) {
	case value.Int:
		return hourFromHHMM(int(cell))
	case value.String:
		s := string(cell)
		if s == "" {
			return value.Null{}
		}
		if i := strings.IndexByte(s, ':'); i > 0 {
			h, err := strconv.Atoi(s[:i])
			if err != nil || h < 0 || h > 23 {
				return value.Null{}
			}
			return value.Int(h)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return value.Null{}
		}
		return hourFromHHMM(n)
	default:
		return value.Null{}
	}
}

func hourFromHHMM(n int) value.Value {
	h := n / 100
	if n < 0 || n > 2359 || h > 23 || n%100 > 59 {
		return value.Null{}
	}
	return value.Int(h)
}

// AgeBucket maps an integer age column to the catalogue's bucket labels.
// Boundaries: 0-17, 18-25, 26-35, 36-45, 46-60, 60+ (61 and above).
type AgeBucket struct {
	Field string
}

func (AgeBucket) expr() {}

func (e AgeBucket) ColumnName() string { return "age_bucket" }
func (e AgeBucket) FieldName() string  { return e.Field }

func (e AgeBucket) Eval(row table.Row) value.Value {
	f, ok := value.AsFloat(row.Get(e.Field))
	if !ok {
		return value.Null{}
	}
	age := int(f)
	switch {
	case age < 0:
		// Out-of-range source values pass through unvalidated; a
		// negative age still lands in the lowest bucket.
		return value.String("0-17")
	case age <= 17:
		return value.String("0-17")
	case age <= 25:
		return value.String("18-25")
	case age <= 35:
		return value.String("26-35")
	case age <= 45:
		return value.String("36-45")
	case age <= 60:
		return value.String("46-60")
	default:
		return value.String("60+")
	}
}

// splitISODate returns the year and "2006-01" prefix of an ISO date cell.
func splitISODate(cell value.Value) (int, string, bool) {
	s, ok := cell.(value.String)
	if !ok {
		return 0, "", false
	}
	d := string(s)
	if len(d) < 7 || d[4] != '-' {
		return 0, "", false
	}
	y, err := strconv.Atoi(d[:4])
	if err != nil {
		return 0, "", false
	}
	return y, d[:7], true
}
