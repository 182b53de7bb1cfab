package queryspec

import (
	"fmt"
	"slices"
	"time"

	"github.com/blotterlabs/blotter/internal/table"
)

// Validate checks a spec against a dataset header and fails fast on the
// first structural problem. Execution must never start on an invalid
// spec, so the engine calls this before touching any row.
func Validate(s Spec, columns []string) error {
	if err := validateAggregate(s.Aggregate, columns); err != nil {
		return err
	}
	if err := validateFilter(s.Filter, columns); err != nil {
		return err
	}
	for _, e := range s.GroupBy {
		if !slices.Contains(columns, e.FieldName()) {
			return newSpecError(ErrCodeUnknownField,
				"group_by references unknown field", e.FieldName())
		}
	}
	if s.TopN < 0 {
		return newSpecError(ErrCodeBadTopN,
			fmt.Sprintf("top_n must not be negative, got %d", s.TopN), "")
	}

	header := s.ResultColumns()
	if err := validateWindow(s.Window, header); err != nil {
		return err
	}
	if s.Window != nil {
		header = append(header, s.Window.OutputColumns()...)
	}
	for _, k := range s.OrderBy {
		if !slices.Contains(header, k.Column) {
			return newSpecError(ErrCodeBadOrderColumn,
				"order_by references a column not in the result", k.Column)
		}
	}
	return nil
}

func validateAggregate(a Aggregate, columns []string) error {
	switch a.Kind {
	case AggCount:
		if a.Field != "*" && a.Field != "" && !slices.Contains(columns, a.Field) {
			return newSpecError(ErrCodeUnknownField,
				"count references unknown field", a.Field)
		}
		return nil
	case AggSum, AggAvg:
		if a.Field == "" || a.Field == "*" {
			return newSpecError(ErrCodeMissingAggregateField,
				fmt.Sprintf("%s requires a named field", a.Kind), "")
		}
		if !slices.Contains(columns, a.Field) {
			return newSpecError(ErrCodeUnknownField,
				fmt.Sprintf("%s references unknown field", a.Kind), a.Field)
		}
		return nil
	default:
		return newSpecError(ErrCodeUnknownAggregate,
			"unrecognized aggregate kind", string(a.Kind))
	}
}

func validateFilter(p Predicate, columns []string) error {
	if p == nil {
		return nil
	}
	for _, f := range p.Fields() {
		if !slices.Contains(columns, f) {
			return newSpecError(ErrCodeUnknownField,
				"filter references unknown field", f)
		}
	}
	return validateDateBounds(p)
}

func validateDateBounds(p Predicate) error {
	switch pred := p.(type) {
	case DateRange:
		for _, bound := range []string{pred.From, pred.To} {
			if bound == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", bound); err != nil {
				return newSpecError(ErrCodeBadDate,
					"date_range bound is not an ISO date", bound)
			}
		}
	case And:
		for _, child := range pred.Predicates {
			if err := validateDateBounds(child); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateWindow(w Window, header []string) error {
	switch win := w.(type) {
	case nil:
		return nil
	case Rank:
		if len(win.OrderBy) == 0 {
			return newSpecError(ErrCodeBadOrderColumn,
				"rank window requires an order key", "")
		}
		return checkWindowColumns(header, win.PartitionBy, win.OrderBy)
	case Lag:
		if win.Offset < 0 {
			return newSpecError(ErrCodeBadOffset,
				fmt.Sprintf("lag offset must not be negative, got %d", win.Offset), "")
		}
		if len(win.OrderBy) == 0 {
			return newSpecError(ErrCodeBadOrderColumn,
				"lag window requires an order key", "")
		}
		if !slices.Contains(header, win.Field) {
			return newSpecError(ErrCodeBadOrderColumn,
				"lag field is not in the result", win.Field)
		}
		return checkWindowColumns(header, win.PartitionBy, win.OrderBy)
	case Rolling:
		if win.Size < 1 {
			return newSpecError(ErrCodeBadWindowSize,
				fmt.Sprintf("rolling window size must be at least 1, got %d", win.Size), "")
		}
		if win.Kind != RollSum && win.Kind != RollAvg {
			return newSpecError(ErrCodeUnknownWindow,
				"unrecognized rolling kind", string(win.Kind))
		}
		if len(win.OrderBy) == 0 {
			return newSpecError(ErrCodeBadOrderColumn,
				"rolling window requires an order key", "")
		}
		if !slices.Contains(header, win.Field) {
			return newSpecError(ErrCodeBadOrderColumn,
				"rolling field is not in the result", win.Field)
		}
		return checkWindowColumns(header, nil, win.OrderBy)
	default:
		return newSpecError(ErrCodeUnknownWindow,
			fmt.Sprintf("unrecognized window kind %T", w), "")
	}
}

func checkWindowColumns(header, partition []string, order []table.OrderKey) error {
	for _, col := range partition {
		if !slices.Contains(header, col) {
			return newSpecError(ErrCodeBadOrderColumn,
				"window partition column is not in the result", col)
		}
	}
	for _, k := range order {
		if !slices.Contains(header, k.Column) {
			return newSpecError(ErrCodeBadOrderColumn,
				"window order column is not in the result", k.Column)
		}
	}
	return nil
}
