package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/testutil"
	"github.com/blotterlabs/blotter/internal/value"
)

func countByArea() queryspec.Spec {
	return queryspec.Spec{
		Name:      "count_by_area",
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColAreaName}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
	}
}

func TestRun_CountByArea(t *testing.T) {
	result, err := Run(testutil.SampleArrests(), countByArea())
	require.NoError(t, err)

	require.Len(t, result.Rows, 3)
	assert.Equal(t, []string{"area_name", "count"}, result.Columns)

	counts := map[string]int64{}
	for _, row := range result.Rows {
		counts[string(row.Get("area_name").(value.String))] = int64(row.Get("count").(value.Int))
	}
	assert.Equal(t, map[string]int64{"Hollywood": 4, "Central": 3, "Harbor": 2}, counts)
}

func TestRun_GroupCountsSumToFilteredRowCount(t *testing.T) {
	// For any dataset and group key, per-group counts sum to the
	// filtered row count.
	ds := testutil.SampleArrests()
	spec := countByArea()
	spec.Filter = queryspec.Equals{Field: table.ColReportType, Value: value.String("Booking")}

	result, err := Run(ds, spec)
	require.NoError(t, err)

	var total int64
	for _, row := range result.Rows {
		total += int64(row.Get("count").(value.Int))
	}
	assert.Equal(t, int64(8), total) // 9 rows, one RFC filtered out
}

func TestRun_EmptyDataset(t *testing.T) {
	ds := testutil.Dataset()

	result, err := Run(ds, countByArea())
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Equal(t, []string{"area_name", "count"}, result.Columns)
}

func TestRun_FilterRemovesEverything(t *testing.T) {
	spec := countByArea()
	spec.Filter = queryspec.Equals{Field: table.ColAreaName, Value: value.String("Nowhere")}

	result, err := Run(testutil.SampleArrests(), spec)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
}

func TestRun_InvalidSpecFailsBeforeExecution(t *testing.T) {
	spec := queryspec.Spec{
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: "no_such_column"}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
	}

	result, err := Run(testutil.SampleArrests(), spec)
	require.Error(t, err)
	assert.True(t, queryspec.IsSpecError(err))
	assert.Nil(t, result, "invalid spec must never produce a partial result")
}

func TestRun_NullGroupsAsDistinctKey(t *testing.T) {
	ds := testutil.Dataset(
		testutil.Arrest("a", map[string]any{table.ColSexCode: "M"}),
		testutil.Arrest("b", map[string]any{table.ColSexCode: "F"}),
		testutil.Arrest("c", map[string]any{table.ColSexCode: nil}),
	)
	spec := queryspec.Spec{
		GroupBy:   []queryspec.Expr{queryspec.Field{Name: table.ColSexCode}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
	}

	result, err := Run(ds, spec)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	var sawNull bool
	for _, row := range result.Rows {
		if value.IsNull(row.Get("sex_code")) {
			sawNull = true
			assert.Equal(t, value.Int(1), row.Get("count"))
		}
	}
	assert.True(t, sawNull, "null key should form its own group")
}

func TestRun_CountFieldSkipsNulls(t *testing.T) {
	ds := testutil.Dataset(
		testutil.Arrest("a"),
		testutil.Arrest("b", map[string]any{table.ColAge: nil}),
	)
	spec := queryspec.Spec{
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: table.ColAge},
	}

	result, err := Run(ds, spec)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, value.Int(1), result.Rows[0].Get("count"))
}

func TestRun_AvgOverAllNullsIsNull(t *testing.T) {
	ds := testutil.Dataset(
		testutil.Arrest("a", map[string]any{table.ColAge: nil}),
		testutil.Arrest("b", map[string]any{table.ColAge: nil}),
	)
	spec := queryspec.Spec{
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggAvg, Field: table.ColAge},
	}

	result, err := Run(ds, spec)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, value.Null{}, result.Rows[0].Get("avg_age"))
}

func TestRun_AvgSkipsNulls(t *testing.T) {
	ds := testutil.Dataset(
		testutil.Arrest("a", map[string]any{table.ColAge: 20}),
		testutil.Arrest("b", map[string]any{table.ColAge: 40}),
		testutil.Arrest("c", map[string]any{table.ColAge: nil}),
	)
	spec := queryspec.Spec{
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggAvg, Field: table.ColAge},
	}

	result, err := Run(ds, spec)
	require.NoError(t, err)
	assert.Equal(t, value.Float(30), result.Rows[0].Get("avg_age"))
}

func TestRun_SumStaysIntForIntColumns(t *testing.T) {
	ds := testutil.Dataset(
		testutil.Arrest("a", map[string]any{table.ColAge: 20}),
		testutil.Arrest("b", map[string]any{table.ColAge: 22}),
	)
	spec := queryspec.Spec{
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggSum, Field: table.ColAge},
	}

	result, err := Run(ds, spec)
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), result.Rows[0].Get("sum_age"))
}

func TestRun_EmptyGroupByAggregatesWholeTable(t *testing.T) {
	result, err := Run(testutil.SampleArrests(), queryspec.Spec{
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, value.Int(9), result.Rows[0].Get("count"))
}

func TestRun_OrderByAndTopN(t *testing.T) {
	spec := countByArea()
	spec.OrderBy = []table.OrderKey{{Column: "count", Desc: true}}
	spec.TopN = 2

	result, err := Run(testutil.SampleArrests(), spec)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, value.String("Hollywood"), result.Rows[0].Get("area_name"))
	assert.Equal(t, value.String("Central"), result.Rows[1].Get("area_name"))
}

func TestRun_TopNDropsTiesBeyondCutoff(t *testing.T) {
	// Two areas tie at 2 arrests; with top_n 1, only one survives.
	ds := testutil.Dataset(
		testutil.Arrest("a", map[string]any{table.ColAreaName: "A"}),
		testutil.Arrest("b", map[string]any{table.ColAreaName: "A"}),
		testutil.Arrest("c", map[string]any{table.ColAreaName: "B"}),
		testutil.Arrest("d", map[string]any{table.ColAreaName: "B"}),
	)
	spec := countByArea()
	spec.OrderBy = []table.OrderKey{{Column: "count", Desc: true}}
	spec.TopN = 1

	result, err := Run(ds, spec)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
}

func TestRun_DerivedGrouping(t *testing.T) {
	spec := queryspec.Spec{
		GroupBy:   []queryspec.Expr{queryspec.YearOf{Field: table.ColArrestDate}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
		OrderBy:   []table.OrderKey{{Column: "year"}},
	}

	result, err := Run(testutil.SampleArrests(), spec)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, value.Int(2018), result.Rows[0].Get("year"))
	assert.Equal(t, value.Int(4), result.Rows[0].Get("count"))
	assert.Equal(t, value.Int(2019), result.Rows[1].Get("year"))
	assert.Equal(t, value.Int(5), result.Rows[1].Get("count"))
}

func TestRun_AgeBucketFilterExcludesNullAges(t *testing.T) {
	ds := testutil.Dataset(
		testutil.Arrest("a", map[string]any{table.ColAge: 17}),
		testutil.Arrest("b", map[string]any{table.ColAge: nil}),
	)
	spec := queryspec.Spec{
		Filter:    queryspec.NotNull{Field: table.ColAge},
		GroupBy:   []queryspec.Expr{queryspec.AgeBucket{Field: table.ColAge}},
		Aggregate: queryspec.Aggregate{Kind: queryspec.AggCount, Field: "*"},
	}

	result, err := Run(ds, spec)
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, value.String("0-17"), result.Rows[0].Get("age_bucket"))
	assert.Equal(t, value.Int(1), result.Rows[0].Get("count"))
}
