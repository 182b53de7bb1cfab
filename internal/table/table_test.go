package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blotterlabs/blotter/internal/value"
)

func TestNewDataset_RejectsUnknownColumn(t *testing.T) {
	_, err := NewDataset(
		[]string{"area_name"},
		[]Row{{"area_name": value.String("Central"), "bogus": value.Int(1)}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "bogus"`)
}

func TestNewDataset_MissingCellsPermitted(t *testing.T) {
	ds, err := NewDataset(
		[]string{"area_name", "age"},
		[]Row{{"area_name": value.String("Central")}},
	)
	require.NoError(t, err)
	assert.Equal(t, value.Null{}, ds.Rows[0].Get("age"))
}

func TestRow_GetMissingIsNull(t *testing.T) {
	r := Row{"age": value.Int(34)}
	assert.Equal(t, value.Int(34), r.Get("age"))
	assert.Equal(t, value.Null{}, r.Get("sex_code"))
}

func TestDataset_HasColumn(t *testing.T) {
	ds := &Dataset{Columns: ArrestColumns()}
	assert.True(t, ds.HasColumn(ColArrestDate))
	assert.False(t, ds.HasColumn("nope"))
}

func TestResultTable_SortStable(t *testing.T) {
	rt := &ResultTable{
		Columns: []string{"area_name", "count"},
		Rows: []Row{
			{"area_name": value.String("Rampart"), "count": value.Int(10)},
			{"area_name": value.String("Central"), "count": value.Int(30)},
			{"area_name": value.String("Harbor"), "count": value.Int(30)},
		},
	}

	rt.SortStable([]OrderKey{{Column: "count", Desc: true}})

	// Ties keep their prior relative order (stable sort).
	assert.Equal(t, value.String("Central"), rt.Rows[0].Get("area_name"))
	assert.Equal(t, value.String("Harbor"), rt.Rows[1].Get("area_name"))
	assert.Equal(t, value.String("Rampart"), rt.Rows[2].Get("area_name"))
}

func TestResultTable_SortStable_NullsFirstAscending(t *testing.T) {
	rt := &ResultTable{
		Columns: []string{"sex_code"},
		Rows: []Row{
			{"sex_code": value.String("M")},
			{"sex_code": value.Null{}},
			{"sex_code": value.String("F")},
		},
	}

	rt.SortStable([]OrderKey{{Column: "sex_code"}})

	assert.Equal(t, value.Null{}, rt.Rows[0].Get("sex_code"))
	assert.Equal(t, value.String("F"), rt.Rows[1].Get("sex_code"))
	assert.Equal(t, value.String("M"), rt.Rows[2].Get("sex_code"))
}
