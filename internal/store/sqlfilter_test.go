package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

func TestCompileFilterEquals(t *testing.T) {
	clause, args, err := CompileFilter(queryspec.Equals{
		Field: table.ColAreaName, Value: value.String("Hollywood"),
	})
	require.NoError(t, err)
	assert.Equal(t, "area_name = ?", clause)
	assert.Equal(t, []any{"Hollywood"}, args)
}

func TestCompileFilterEqualsNullTarget(t *testing.T) {
	clause, args, err := CompileFilter(queryspec.Equals{
		Field: table.ColAreaName, Value: value.Null{},
	})
	require.NoError(t, err)
	assert.Equal(t, "1 = 0", clause)
	assert.Empty(t, args)
}

func TestCompileFilterNotNull(t *testing.T) {
	clause, args, err := CompileFilter(queryspec.NotNull{Field: table.ColChargeDesc})
	require.NoError(t, err)
	assert.Equal(t, "charge_description IS NOT NULL", clause)
	assert.Empty(t, args)
}

func TestCompileFilterDateRange(t *testing.T) {
	clause, args, err := CompileFilter(queryspec.DateRange{
		Field: table.ColArrestDate, From: "2019-01-01", To: "2019-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "arrest_date >= ? AND arrest_date <= ?", clause)
	assert.Equal(t, []any{"2019-01-01", "2019-12-31"}, args)
}

func TestCompileFilterDateRangeOpenEnd(t *testing.T) {
	clause, args, err := CompileFilter(queryspec.DateRange{
		Field: table.ColArrestDate, From: "2019-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "arrest_date >= ?", clause)
	assert.Equal(t, []any{"2019-01-01"}, args)
}

func TestCompileFilterAnd(t *testing.T) {
	clause, args, err := CompileFilter(queryspec.And{Predicates: []queryspec.Predicate{
		queryspec.Equals{Field: table.ColReportType, Value: value.String("Booking")},
		queryspec.NotNull{Field: table.ColChargeDesc},
	}})
	require.NoError(t, err)
	assert.Equal(t, "(report_type = ?) AND (charge_description IS NOT NULL)", clause)
	assert.Equal(t, []any{"Booking"}, args)
}

func TestCompileFilterRejectsDerivedColumn(t *testing.T) {
	_, _, err := CompileFilter(queryspec.NotNull{Field: table.ColBookingDelayHrs})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking_delay_hours")
}

func TestCompileFilterRejectsUnknownColumn(t *testing.T) {
	_, _, err := CompileFilter(queryspec.Equals{Field: "area_name; DROP TABLE arrests", Value: value.String("x")})
	require.Error(t, err)
}

func TestLoadWherePushesFilterDown(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ImportCSV(ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)

	ds, err := s.LoadWhere(ctx, queryspec.And{Predicates: []queryspec.Predicate{
		queryspec.Equals{Field: table.ColReportType, Value: value.String("Booking")},
		queryspec.DateRange{Field: table.ColArrestDate, From: "2019-01-01", To: "2019-12-31"},
	}})
	require.NoError(t, err)

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, value.String("Hollywood"), ds.Rows[0].Get(table.ColAreaName))
}

func TestLoadWhereMatchesInMemorySemantics(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ImportCSV(ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)

	pred := queryspec.NotNull{Field: table.ColBookingDate}

	pushed, err := s.LoadWhere(ctx, pred)
	require.NoError(t, err)

	all, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	var inMemory int
	for _, row := range all.Rows {
		if pred.Matches(row) {
			inMemory++
		}
	}

	assert.Equal(t, inMemory, pushed.Len())
	assert.Equal(t, 2, pushed.Len())
}
