package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

func TestArrest_DefaultsAndOverrides(t *testing.T) {
	row := Arrest("r99", map[string]any{table.ColAge: nil, table.ColAreaName: "Rampart"})

	assert.Equal(t, value.String("r99"), row.Get(table.ColReportID))
	assert.Equal(t, value.String("Rampart"), row.Get(table.ColAreaName))
	assert.Equal(t, value.Null{}, row.Get(table.ColAge))
	// Untouched default survives.
	assert.Equal(t, value.String("Booking"), row.Get(table.ColReportType))
}

func TestSampleArrests_Shape(t *testing.T) {
	ds := SampleArrests()
	assert.Equal(t, 9, ds.Len())
	assert.Equal(t, table.ArrestColumns(), ds.Columns)
}

func TestRow_PanicsOnUnsupportedType(t *testing.T) {
	assert.Panics(t, func() {
		Row(map[string]any{"age": struct{}{}})
	})
}
