package store

import (
	"fmt"
	"strings"

	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/value"
)

// CompileFilter converts a row predicate to a parameterized SQL WHERE
// clause. All values are parameterized, never interpolated; column
// names are checked against the stored schema, so the derived
// booking_delay_hours column cannot be pushed down and filters on it
// must run in memory instead.
//
// The compiled clause matches the in-memory predicate semantics:
// equality never matches a NULL cell, and date ranges are inclusive
// string comparisons over ISO dates.
func CompileFilter(pred queryspec.Predicate) (string, []any, error) {
	switch p := pred.(type) {
	case queryspec.Equals:
		if err := checkStoredColumn(p.Field); err != nil {
			return "", nil, err
		}
		if value.IsNull(p.Value) {
			// A null target matches nothing, same as in memory.
			return "1 = 0", nil, nil
		}
		arg, err := valueArg(p.Value)
		if err != nil {
			return "", nil, fmt.Errorf("filter on %s: %w", p.Field, err)
		}
		return p.Field + " = ?", []any{arg}, nil

	case queryspec.NotNull:
		if err := checkStoredColumn(p.Field); err != nil {
			return "", nil, err
		}
		return p.Field + " IS NOT NULL", nil, nil

	case queryspec.DateRange:
		if err := checkStoredColumn(p.Field); err != nil {
			return "", nil, err
		}
		var parts []string
		var args []any
		if p.From != "" {
			parts = append(parts, p.Field+" >= ?")
			args = append(args, p.From)
		}
		if p.To != "" {
			parts = append(parts, p.Field+" <= ?")
			args = append(args, p.To)
		}
		if len(parts) == 0 {
			// Open on both ends still excludes NULL dates.
			return p.Field + " IS NOT NULL", nil, nil
		}
		return strings.Join(parts, " AND "), args, nil

	case queryspec.And:
		if len(p.Predicates) == 0 {
			return "1 = 1", nil, nil
		}
		var parts []string
		var args []any
		for _, sub := range p.Predicates {
			clause, subArgs, err := CompileFilter(sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "("+clause+")")
			args = append(args, subArgs...)
		}
		return strings.Join(parts, " AND "), args, nil

	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", pred)
	}
}

func checkStoredColumn(col string) error {
	for _, known := range csvColumns() {
		if col == known {
			return nil
		}
	}
	return fmt.Errorf("column %q is not stored and cannot be filtered in SQL", col)
}

func valueArg(v value.Value) (any, error) {
	switch x := v.(type) {
	case value.String:
		return string(x), nil
	case value.Int:
		return int64(x), nil
	case value.Float:
		return float64(x), nil
	case value.Bool:
		return bool(x), nil
	default:
		return nil, fmt.Errorf("unsupported filter value type: %T", v)
	}
}
