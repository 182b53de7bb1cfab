package catalog

import (
	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
)

// The built-in catalogue. Each entry reproduces one of the source
// analyses over the arrest table; all of them run through the same
// interpreter with no bespoke code path.
func init() {
	// The named view: yearly arrest counts by charge group.
	Register(queryspec.Spec{
		Name: "yearly_arrests_by_charge_group",
		GroupBy: []queryspec.Expr{
			queryspec.YearOf{Field: table.ColArrestDate},
			queryspec.Field{Name: table.ColChargeGroup},
		},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy: []table.OrderKey{
			{Column: "year"},
			{Column: "count", Desc: true},
		},
	})

	Register(queryspec.Spec{
		Name:      "arrests_by_area",
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColAreaName}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "count", Desc: true}},
	})

	Register(queryspec.Spec{
		Name:      "arrests_by_sex",
		Filter:    queryspec.NotNull{Field: table.ColSexCode},
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColSexCode}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "sex_code"}},
	})

	Register(queryspec.Spec{
		Name:      "arrests_by_age_bucket",
		Filter:    queryspec.NotNull{Field: table.ColAge},
		GroupBy:   []queryspec.Expr{queryspec.AgeBucket{Field: table.ColAge}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "age_bucket"}},
	})

	Register(queryspec.Spec{
		Name:      "arrests_by_hour",
		Filter:    queryspec.NotNull{Field: table.ColArrestTime},
		GroupBy:   []queryspec.Expr{queryspec.HourOf{Field: table.ColArrestTime}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "hour"}},
	})

	Register(queryspec.Spec{
		Name:      "arrests_by_report_type",
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColReportType}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "count", Desc: true}},
	})

	Register(queryspec.Spec{
		Name: "booking_arrests_by_area",
		Filter: queryspec.Equals{
			Field: table.ColReportType,
			Value: stringValue("Booking"),
		},
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColAreaName}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "count", Desc: true}},
	})

	Register(queryspec.Spec{
		Name:      "avg_age_by_charge_group",
		Filter:    queryspec.NotNull{Field: table.ColChargeGroup},
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColChargeGroup}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggAvg, Field: table.ColAge},
		OrderBy:   []table.OrderKey{{Column: "avg_age", Desc: true}},
	})

	// Rank areas by arrest volume within each year; standard rank, so
	// tied areas share a rank and the next one skips.
	Register(queryspec.Spec{
		Name: "area_rank_by_arrests",
		GroupBy: []queryspec.Expr{
			queryspec.YearOf{Field: table.ColArrestDate},
			queryspec.Field{Name: table.ColAreaName},
		},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		Window: queryspec.Rank{
			PartitionBy: []string{"year"},
			OrderBy:     []table.OrderKey{{Column: "count", Desc: true}},
		},
		OrderBy: []table.OrderKey{
			{Column: "year"},
			{Column: "rank"},
		},
	})

	// Year-over-year change in total arrests, percent change guarded
	// against a null or zero prior year.
	Register(queryspec.Spec{
		Name:      "yearly_change_in_arrests",
		Filter:    queryspec.NotNull{Field: table.ColArrestDate},
		GroupBy:   []queryspec.Expr{queryspec.YearOf{Field: table.ColArrestDate}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		Window: queryspec.Lag{
			OrderBy:       []table.OrderKey{{Column: "year"}},
			Field:         "count",
			PercentChange: true,
		},
		OrderBy: []table.OrderKey{{Column: "year"}},
	})

	// Trailing three-month average of monthly arrest volume; the window
	// shrinks at the start of the series.
	Register(queryspec.Spec{
		Name:      "monthly_rolling_arrests",
		Filter:    queryspec.NotNull{Field: table.ColArrestDate},
		GroupBy:   []queryspec.Expr{queryspec.MonthOf{Field: table.ColArrestDate}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		Window: queryspec.Rolling{
			OrderBy: []table.OrderKey{{Column: "month"}},
			Field:   "count",
			Size:    3,
			Kind:    queryspec.RollAvg,
		},
		OrderBy: []table.OrderKey{{Column: "month"}},
	})

	Register(queryspec.Spec{
		Name:      "avg_booking_delay_by_area",
		Filter:    queryspec.NotNull{Field: table.ColBookingDelayHrs},
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColAreaName}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggAvg, Field: table.ColBookingDelayHrs},
		OrderBy:   []table.OrderKey{{Column: "avg_booking_delay_hours", Desc: true}},
	})
}
