package querycue

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// CompileQuery parses a CUE value into a queryspec.Spec.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
//
// The CUE value should be the query struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`query: weekend: { aggregate: {kind: "count"} }`)
//	spec, err := CompileQuery(v.LookupPath(cue.ParsePath("query.weekend")))
//
// Supported fields: filter (equals / not_null / date_range), group_by,
// aggregate (required), window, order_by, top_n.
func CompileQuery(v cue.Value) (*queryspec.Spec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &queryspec.Spec{}

	// Query name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	aggVal := v.LookupPath(cue.ParsePath("aggregate"))
	if !aggVal.Exists() {
		return nil, &CompileError{
			Field:   "aggregate",
			Message: "aggregate is required",
			Pos:     v.Pos(),
		}
	}
	agg, err := parseAggregate(aggVal)
	if err != nil {
		return nil, err
	}
	spec.Aggregate = agg

	filterVal := v.LookupPath(cue.ParsePath("filter"))
	if filterVal.Exists() {
		spec.Filter, err = parseFilter(filterVal)
		if err != nil {
			return nil, err
		}
	}

	groupVal := v.LookupPath(cue.ParsePath("group_by"))
	if groupVal.Exists() {
		spec.GroupBy, err = parseGroupBy(groupVal)
		if err != nil {
			return nil, err
		}
	}

	windowVal := v.LookupPath(cue.ParsePath("window"))
	if windowVal.Exists() {
		spec.Window, err = parseWindow(windowVal)
		if err != nil {
			return nil, err
		}
	}

	orderVal := v.LookupPath(cue.ParsePath("order_by"))
	if orderVal.Exists() {
		spec.OrderBy, err = parseOrderKeys(orderVal, "order_by")
		if err != nil {
			return nil, err
		}
	}

	topVal := v.LookupPath(cue.ParsePath("top_n"))
	if topVal.Exists() {
		n, err := topVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.TopN = int(n)
	}

	return spec, nil
}

// parseAggregate parses {kind: "count"|"sum"|"avg", field?: string}.
func parseAggregate(v cue.Value) (queryspec.Aggregate, error) {
	var agg queryspec.Aggregate

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return agg, &CompileError{
			Field:   "aggregate.kind",
			Message: "aggregate kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return agg, formatCUEError(err)
	}
	agg.Kind = queryspec.AggKind(kind)

	fieldVal := v.LookupPath(cue.ParsePath("field"))
	if fieldVal.Exists() {
		field, err := fieldVal.String()
		if err != nil {
			return agg, formatCUEError(err)
		}
		agg.Field = field
	} else if agg.Kind == queryspec.AggCount {
		agg.Field = "*"
	}

	return agg, nil
}

// parseFilter parses a filter struct into a single Predicate. Multiple
// conditions conjoin with And:
//
//	filter: {
//	    equals: {area_name: "Hollywood", report_type: "Booking"}
//	    not_null: ["charge_description"]
//	    date_range: {field: "arrest_date", from: "2019-01-01", to: "2019-12-31"}
//	}
func parseFilter(v cue.Value) (queryspec.Predicate, error) {
	var preds []queryspec.Predicate

	eqVal := v.LookupPath(cue.ParsePath("equals"))
	if eqVal.Exists() {
		iter, err := eqVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			target, err := parseScalar(iter.Value())
			if err != nil {
				return nil, &CompileError{
					Field:   "filter.equals." + iter.Selector().String(),
					Message: err.Error(),
					Pos:     iter.Value().Pos(),
				}
			}
			preds = append(preds, queryspec.Equals{
				Field: iter.Selector().String(),
				Value: target,
			})
		}
	}

	nnVal := v.LookupPath(cue.ParsePath("not_null"))
	if nnVal.Exists() {
		iter, err := nnVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			field, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			preds = append(preds, queryspec.NotNull{Field: field})
		}
	}

	drVal := v.LookupPath(cue.ParsePath("date_range"))
	if drVal.Exists() {
		dr, err := parseDateRange(drVal)
		if err != nil {
			return nil, err
		}
		preds = append(preds, dr)
	}

	switch len(preds) {
	case 0:
		return nil, &CompileError{
			Field:   "filter",
			Message: "filter has no recognized conditions (want equals, not_null, or date_range)",
			Pos:     v.Pos(),
		}
	case 1:
		return preds[0], nil
	default:
		return queryspec.And{Predicates: preds}, nil
	}
}

func parseDateRange(v cue.Value) (queryspec.Predicate, error) {
	fieldVal := v.LookupPath(cue.ParsePath("field"))
	if !fieldVal.Exists() {
		return nil, &CompileError{
			Field:   "filter.date_range",
			Message: "date_range requires a field",
			Pos:     v.Pos(),
		}
	}
	field, err := fieldVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	dr := queryspec.DateRange{Field: field}
	if fromVal := v.LookupPath(cue.ParsePath("from")); fromVal.Exists() {
		if dr.From, err = fromVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if toVal := v.LookupPath(cue.ParsePath("to")); toVal.Exists() {
		if dr.To, err = toVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	return dr, nil
}

// parseGroupBy parses a list whose entries are either a plain column
// name or a derived expression {fn: "year"|"month"|"hour"|"age_bucket",
// field: "..."}.
func parseGroupBy(v cue.Value) ([]queryspec.Expr, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var exprs []queryspec.Expr
	for iter.Next() {
		entry := iter.Value()

		if name, err := entry.String(); err == nil {
			exprs = append(exprs, queryspec.Field{Name: name})
			continue
		}

		fnVal := entry.LookupPath(cue.ParsePath("fn"))
		fieldVal := entry.LookupPath(cue.ParsePath("field"))
		if !fnVal.Exists() || !fieldVal.Exists() {
			return nil, &CompileError{
				Field:   "group_by",
				Message: "entry must be a column name or {fn, field}",
				Pos:     entry.Pos(),
			}
		}
		fn, err := fnVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		field, err := fieldVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		switch fn {
		case "year":
			exprs = append(exprs, queryspec.YearOf{Field: field})
		case "month":
			exprs = append(exprs, queryspec.MonthOf{Field: field})
		case "hour":
			exprs = append(exprs, queryspec.HourOf{Field: field})
		case "age_bucket":
			exprs = append(exprs, queryspec.AgeBucket{Field: field})
		default:
			return nil, &CompileError{
				Field:   "group_by.fn",
				Message: fmt.Sprintf("unknown derivation %q (want year, month, hour, or age_bucket)", fn),
				Pos:     fnVal.Pos(),
			}
		}
	}
	return exprs, nil
}

// parseWindow parses {kind: "rank"|"lag"|"rolling", ...}.
func parseWindow(v cue.Value) (queryspec.Window, error) {
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{
			Field:   "window.kind",
			Message: "window kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	orderBy, err := parseOrderKeys(v.LookupPath(cue.ParsePath("order_by")), "window.order_by")
	if err != nil {
		return nil, err
	}
	partitionBy, err := parseStringList(v.LookupPath(cue.ParsePath("partition_by")))
	if err != nil {
		return nil, err
	}

	switch kind {
	case "rank":
		return queryspec.Rank{PartitionBy: partitionBy, OrderBy: orderBy}, nil

	case "lag":
		win := queryspec.Lag{PartitionBy: partitionBy, OrderBy: orderBy}
		if fieldVal := v.LookupPath(cue.ParsePath("field")); fieldVal.Exists() {
			if win.Field, err = fieldVal.String(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		if offVal := v.LookupPath(cue.ParsePath("offset")); offVal.Exists() {
			n, err := offVal.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			win.Offset = int(n)
		}
		if pcVal := v.LookupPath(cue.ParsePath("percent_change")); pcVal.Exists() {
			if win.PercentChange, err = pcVal.Bool(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		return win, nil

	case "rolling":
		win := queryspec.Rolling{OrderBy: orderBy, Kind: queryspec.RollSum}
		if fieldVal := v.LookupPath(cue.ParsePath("field")); fieldVal.Exists() {
			if win.Field, err = fieldVal.String(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		if sizeVal := v.LookupPath(cue.ParsePath("size")); sizeVal.Exists() {
			n, err := sizeVal.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			win.Size = int(n)
		}
		if ofVal := v.LookupPath(cue.ParsePath("of")); ofVal.Exists() {
			of, err := ofVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			win.Kind = queryspec.RollKind(of)
		}
		return win, nil

	default:
		return nil, &CompileError{
			Field:   "window.kind",
			Message: fmt.Sprintf("unknown window kind %q (want rank, lag, or rolling)", kind),
			Pos:     kindVal.Pos(),
		}
	}
}

// parseOrderKeys parses [{column: "...", desc?: bool}, ...].
// A missing value yields an empty list, not an error.
func parseOrderKeys(v cue.Value, field string) ([]table.OrderKey, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var keys []table.OrderKey
	for iter.Next() {
		entry := iter.Value()
		colVal := entry.LookupPath(cue.ParsePath("column"))
		if !colVal.Exists() {
			return nil, &CompileError{
				Field:   field,
				Message: "order key requires a column",
				Pos:     entry.Pos(),
			}
		}
		col, err := colVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		key := table.OrderKey{Column: col}
		if descVal := entry.LookupPath(cue.ParsePath("desc")); descVal.Exists() {
			if key.Desc, err = descVal.Bool(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseStringList(v cue.Value) ([]string, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseScalar decodes a CUE scalar into a cell value for equality
// filters. Strings, integers, and booleans are supported.
func parseScalar(v cue.Value) (value.Value, error) {
	if s, err := v.String(); err == nil {
		return value.String(s), nil
	}
	if n, err := v.Int64(); err == nil {
		return value.Int(n), nil
	}
	if b, err := v.Bool(); err == nil {
		return value.Bool(b), nil
	}
	return nil, fmt.Errorf("unsupported filter value (want string, int, or bool)")
}
