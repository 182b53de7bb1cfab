package catalog

import (
	"fmt"

	"github.com/blotterlabs/blotter/internal/engine"
	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// DefaultTopChargesLimit is the result cap when the caller passes a
// non-positive limit, mirroring the stored procedure's default.
const DefaultTopChargesLimit = 5

// TopCharges returns the most frequent charge descriptions for one area
// and year, ordered by count descending. The parameterized counterpart of
// a stored-procedure call: explicit arguments, no dynamic query text.
// Ties at the limit boundary are cut, and the order among tied survivors
// is unspecified beyond count.
func TopCharges(ds *table.Dataset, areaName string, year, limit int) (*table.ResultTable, error) {
	if limit <= 0 {
		limit = DefaultTopChargesLimit
	}

	spec := queryspec.Spec{
		Name: "top_charges",
		Filter: queryspec.And{Predicates: []queryspec.Predicate{
			queryspec.Equals{Field: table.ColAreaName, Value: value.String(areaName)},
			queryspec.NotNull{Field: table.ColChargeDesc},
			queryspec.DateRange{
				Field: table.ColArrestDate,
				From:  isoYearStart(year),
				To:    isoYearEnd(year),
			},
		}},
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColChargeDesc}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "count", Desc: true}},
		TopN:      limit,
	}

	return engine.Run(ds, spec)
}

func isoYearStart(year int) string { return fmt.Sprintf("%04d-01-01", year) }
func isoYearEnd(year int) string   { return fmt.Sprintf("%04d-12-31", year) }

func stringValue(s string) value.Value { return value.String(s) }
