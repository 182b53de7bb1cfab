// Package engine interprets a queryspec.Spec against an immutable
// dataset. One interpreter serves every catalogue query; there is no
// per-question code path.
//
// Pipeline, in fixed order:
//  1. validate the spec (fail fast, never a partial result)
//  2. filter raw rows
//  3. partition by the group-by key tuple (nulls are a distinct key)
//  4. aggregate each group into one result row
//  5. window over the grouped rows (rank, lag, rolling)
//  6. order_by
//  7. top_n truncation
//
// Every query is a single synchronous read-only pass; the dataset is
// never written, so no locking discipline exists here.
package engine

import (
	"log/slog"

	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// Run executes a query spec over a dataset and returns the result table.
// An empty dataset or an empty filtered set yields zero rows, not an
// error; the only error source is a structurally invalid spec.
func Run(ds *table.Dataset, spec queryspec.Spec) (*table.ResultTable, error) {
	if err := queryspec.Validate(spec, ds.Columns); err != nil {
		return nil, err
	}

	rows := filterRows(ds.Rows, spec.Filter)
	slog.Debug("query filtered", "query", spec.Name, "in", len(ds.Rows), "kept", len(rows))

	result := aggregateGroups(rows, spec)

	if spec.Window != nil {
		applyWindow(result, spec.Window)
	}

	if len(spec.OrderBy) > 0 {
		result.SortStable(spec.OrderBy)
	}

	if spec.TopN > 0 && len(result.Rows) > spec.TopN {
		result.Rows = result.Rows[:spec.TopN]
	}

	return result, nil
}

func filterRows(rows []table.Row, filter queryspec.Predicate) []table.Row {
	if filter == nil {
		return rows
	}
	kept := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		if filter.Matches(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

// aggregateGroups partitions the filtered rows by the evaluated group-by
// tuple and emits one result row per group, in order of first appearance.
// With an empty GroupBy the whole table is one group, but an empty input
// still produces zero rows rather than a single empty aggregate.
func aggregateGroups(rows []table.Row, spec queryspec.Spec) *table.ResultTable {
	header := spec.ResultColumns()
	result := &table.ResultTable{Columns: header}
	if len(rows) == 0 {
		return result
	}

	type group struct {
		keys    []value.Value
		members []table.Row
	}

	groups := make(map[string]*group)
	var order []string

	for _, row := range rows {
		keys := make([]value.Value, len(spec.GroupBy))
		for i, e := range spec.GroupBy {
			keys[i] = e.Eval(row)
		}
		enc := value.EncodeKey(keys)
		g, ok := groups[enc]
		if !ok {
			g = &group{keys: keys}
			groups[enc] = g
			order = append(order, enc)
		}
		g.members = append(g.members, row)
	}

	for _, enc := range order {
		g := groups[enc]
		out := make(table.Row, len(spec.GroupBy)+1)
		for i, e := range spec.GroupBy {
			out[e.ColumnName()] = g.keys[i]
		}
		out[spec.Aggregate.ColumnName()] = aggregate(g.members, spec.Aggregate)
		result.Rows = append(result.Rows, out)
	}

	return result
}

// aggregate computes one aggregate value over a group's member rows.
// COUNT over "*" counts rows; over a field it counts non-null cells.
// SUM and AVG skip nulls; with zero non-null cells both yield Null,
// matching SQL's NULL-propagating aggregates.
func aggregate(members []table.Row, agg queryspec.Aggregate) value.Value {
	switch agg.Kind {
	case queryspec.AggCount:
		if agg.Field == "*" || agg.Field == "" {
			return value.Int(int64(len(members)))
		}
		n := int64(0)
		for _, row := range members {
			if !value.IsNull(row.Get(agg.Field)) {
				n++
			}
		}
		return value.Int(n)

	case queryspec.AggSum:
		sum, n, allInt := sumField(members, agg.Field)
		if n == 0 {
			return value.Null{}
		}
		if allInt {
			return value.Int(int64(sum))
		}
		return value.Float(sum)

	case queryspec.AggAvg:
		sum, n, _ := sumField(members, agg.Field)
		if n == 0 {
			return value.Null{}
		}
		return value.Float(sum / float64(n))

	default:
		// Unreachable: Validate rejects unknown aggregate kinds.
		return value.Null{}
	}
}

func sumField(members []table.Row, field string) (sum float64, n int, allInt bool) {
	allInt = true
	for _, row := range members {
		cell := row.Get(field)
		f, ok := value.AsFloat(cell)
		if !ok {
			continue
		}
		if _, isInt := cell.(value.Int); !isInt {
			allInt = false
		}
		sum += f
		n++
	}
	return sum, n, allInt
}
