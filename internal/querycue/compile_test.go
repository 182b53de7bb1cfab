package querycue

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// compileOne compiles src and returns the spec under query.<name>.
func compileOne(t *testing.T, src, name string) (*queryspec.Spec, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileQuery(v.LookupPath(cue.ParsePath("query." + name)))
}

func TestCompileQueryMinimal(t *testing.T) {
	spec, err := compileOne(t, `
query: total: {
	aggregate: {kind: "count"}
}`, "total")
	require.NoError(t, err)

	assert.Equal(t, "total", spec.Name)
	assert.Equal(t, queryspec.AggCount, spec.Aggregate.Kind)
	assert.Equal(t, "*", spec.Aggregate.Field)
	assert.Nil(t, spec.Filter)
	assert.Empty(t, spec.GroupBy)
	assert.Nil(t, spec.Window)
	assert.Zero(t, spec.TopN)
}

func TestCompileQueryFull(t *testing.T) {
	spec, err := compileOne(t, `
query: booking_by_area: {
	filter: {
		equals: {report_type: "Booking"}
		not_null: ["charge_description"]
		date_range: {field: "arrest_date", from: "2019-01-01", to: "2019-12-31"}
	}
	group_by: ["area_name", {fn: "year", field: "arrest_date"}]
	aggregate: {kind: "count"}
	order_by: [{column: "count", desc: true}]
	top_n: 5
}`, "booking_by_area")
	require.NoError(t, err)

	assert.Equal(t, "booking_by_area", spec.Name)

	and, ok := spec.Filter.(queryspec.And)
	require.True(t, ok, "multiple conditions should conjoin")
	require.Len(t, and.Predicates, 3)
	assert.Equal(t, queryspec.Equals{Field: "report_type", Value: value.String("Booking")}, and.Predicates[0])
	assert.Equal(t, queryspec.NotNull{Field: "charge_description"}, and.Predicates[1])
	assert.Equal(t, queryspec.DateRange{Field: "arrest_date", From: "2019-01-01", To: "2019-12-31"}, and.Predicates[2])

	require.Len(t, spec.GroupBy, 2)
	assert.Equal(t, queryspec.Field{Name: "area_name"}, spec.GroupBy[0])
	assert.Equal(t, queryspec.YearOf{Field: "arrest_date"}, spec.GroupBy[1])

	assert.Equal(t, []table.OrderKey{{Column: "count", Desc: true}}, spec.OrderBy)
	assert.Equal(t, 5, spec.TopN)
}

func TestCompileQuerySumAndAvg(t *testing.T) {
	spec, err := compileOne(t, `
query: avg_age: {
	group_by: ["area_name"]
	aggregate: {kind: "avg", field: "age"}
}`, "avg_age")
	require.NoError(t, err)
	assert.Equal(t, queryspec.Aggregate{Kind: queryspec.AggAvg, Field: "age"}, spec.Aggregate)
}

func TestCompileQuerySingleFilterCondition(t *testing.T) {
	spec, err := compileOne(t, `
query: hollywood: {
	filter: {equals: {area_name: "Hollywood"}}
	aggregate: {kind: "count"}
}`, "hollywood")
	require.NoError(t, err)

	eq, ok := spec.Filter.(queryspec.Equals)
	require.True(t, ok, "a lone condition should not be wrapped in And")
	assert.Equal(t, "area_name", eq.Field)
}

func TestCompileQueryDerivedGroupings(t *testing.T) {
	spec, err := compileOne(t, `
query: derived: {
	group_by: [
		{fn: "month", field: "arrest_date"},
		{fn: "hour", field: "arrest_time"},
		{fn: "age_bucket", field: "age"},
	]
	aggregate: {kind: "count"}
}`, "derived")
	require.NoError(t, err)

	require.Len(t, spec.GroupBy, 3)
	assert.Equal(t, queryspec.MonthOf{Field: "arrest_date"}, spec.GroupBy[0])
	assert.Equal(t, queryspec.HourOf{Field: "arrest_time"}, spec.GroupBy[1])
	assert.Equal(t, queryspec.AgeBucket{Field: "age"}, spec.GroupBy[2])
}

func TestCompileQueryWindowRank(t *testing.T) {
	spec, err := compileOne(t, `
query: ranked: {
	group_by: ["area_name", {fn: "year", field: "arrest_date"}]
	aggregate: {kind: "count"}
	window: {
		kind: "rank"
		partition_by: ["year"]
		order_by: [{column: "count", desc: true}]
	}
}`, "ranked")
	require.NoError(t, err)

	rank, ok := spec.Window.(queryspec.Rank)
	require.True(t, ok)
	assert.Equal(t, []string{"year"}, rank.PartitionBy)
	assert.Equal(t, []table.OrderKey{{Column: "count", Desc: true}}, rank.OrderBy)
}

func TestCompileQueryWindowLag(t *testing.T) {
	spec, err := compileOne(t, `
query: yoy: {
	group_by: [{fn: "year", field: "arrest_date"}]
	aggregate: {kind: "count"}
	window: {
		kind: "lag"
		field: "count"
		order_by: [{column: "year"}]
		percent_change: true
	}
}`, "yoy")
	require.NoError(t, err)

	lag, ok := spec.Window.(queryspec.Lag)
	require.True(t, ok)
	assert.Equal(t, "count", lag.Field)
	assert.True(t, lag.PercentChange)
	assert.Equal(t, 1, lag.EffectiveOffset())
}

func TestCompileQueryWindowRolling(t *testing.T) {
	spec, err := compileOne(t, `
query: rolling: {
	group_by: [{fn: "month", field: "arrest_date"}]
	aggregate: {kind: "count"}
	window: {
		kind: "rolling"
		field: "count"
		size: 3
		of: "avg"
		order_by: [{column: "month"}]
	}
}`, "rolling")
	require.NoError(t, err)

	roll, ok := spec.Window.(queryspec.Rolling)
	require.True(t, ok)
	assert.Equal(t, 3, roll.Size)
	assert.Equal(t, queryspec.RollAvg, roll.Kind)
	assert.Equal(t, "count", roll.Field)
}

func TestCompileQueryErrors(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		field string
	}{
		{
			name:  "missing aggregate",
			src:   `query: q: {group_by: ["area_name"]}`,
			field: "aggregate",
		},
		{
			name:  "aggregate without kind",
			src:   `query: q: {aggregate: {field: "age"}}`,
			field: "aggregate.kind",
		},
		{
			name:  "empty filter",
			src:   `query: q: {filter: {}, aggregate: {kind: "count"}}`,
			field: "filter",
		},
		{
			name:  "date_range without field",
			src:   `query: q: {filter: {date_range: {from: "2019-01-01"}}, aggregate: {kind: "count"}}`,
			field: "filter.date_range",
		},
		{
			name:  "unknown group_by fn",
			src:   `query: q: {group_by: [{fn: "week", field: "arrest_date"}], aggregate: {kind: "count"}}`,
			field: "group_by.fn",
		},
		{
			name:  "group_by struct missing field",
			src:   `query: q: {group_by: [{fn: "year"}], aggregate: {kind: "count"}}`,
			field: "group_by",
		},
		{
			name:  "unknown window kind",
			src:   `query: q: {aggregate: {kind: "count"}, window: {kind: "lead"}}`,
			field: "window.kind",
		},
		{
			name:  "order key without column",
			src:   `query: q: {aggregate: {kind: "count"}, order_by: [{desc: true}]}`,
			field: "order_by",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compileOne(t, tc.src, "q")
			require.Error(t, err)
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)
		})
	}
}

func TestCompileQueryFilterValueKinds(t *testing.T) {
	spec, err := compileOne(t, `
query: q: {
	filter: {equals: {age: 30}}
	aggregate: {kind: "count"}
}`, "q")
	require.NoError(t, err)

	eq, ok := spec.Filter.(queryspec.Equals)
	require.True(t, ok)
	assert.Equal(t, value.Int(30), eq.Value)
}
