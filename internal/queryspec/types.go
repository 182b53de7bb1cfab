package queryspec

import (
	"github.com/blotterlabs/blotter/internal/table"
)

// Spec is the declarative description of one aggregation query.
// The engine interprets it in a fixed pipeline: filter, group, aggregate,
// window, order, truncate. A zero Filter means no filtering; an empty
// GroupBy aggregates the whole table into a single row.
type Spec struct {
	// Name identifies the query in logs and the named-query registry.
	Name string

	// Filter is applied to raw rows before grouping. Optional.
	Filter Predicate

	// GroupBy lists grouping expressions, evaluated per raw row.
	// Group order in the result is first appearance in the filtered
	// input unless OrderBy says otherwise.
	GroupBy []Expr

	// Aggregate produces one value per group.
	Aggregate Aggregate

	// Window, when set, runs over the post-aggregation rows.
	// Never over raw rows.
	Window Window

	// OrderBy sorts the final rows. Columns refer to the result header,
	// including window output columns.
	OrderBy []table.OrderKey

	// TopN truncates the result after ordering. Zero means no limit.
	// Ties beyond the cutoff are dropped.
	TopN int
}

// AggKind enumerates the supported aggregate functions.
type AggKind string

const (
	AggCount AggKind = "count"
	AggSum   AggKind = "sum"
	AggAvg   AggKind = "avg"
)

// Aggregate applies an AggKind to a named field, or to "*" for COUNT.
// COUNT over a named field counts non-null cells only; SUM and AVG skip
// nulls, and AVG over zero non-null cells yields Null.
type Aggregate struct {
	Kind  AggKind
	Field string // "*" allowed for count
}

// ColumnName returns the result column this aggregate produces.
func (a Aggregate) ColumnName() string {
	if a.Kind == AggCount {
		return "count"
	}
	return string(a.Kind) + "_" + a.Field
}

// ResultColumns returns the pre-window result header: one column per
// GroupBy expression followed by the aggregate column.
func (s Spec) ResultColumns() []string {
	cols := make([]string, 0, len(s.GroupBy)+1)
	for _, e := range s.GroupBy {
		cols = append(cols, e.ColumnName())
	}
	return append(cols, s.Aggregate.ColumnName())
}
