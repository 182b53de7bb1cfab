// Package testutil holds shared arrest-record fixtures for tests.
package testutil

import (
	"fmt"

	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// Row builds a table.Row from plain Go values, panicking on unsupported
// types. Test-only convenience; nil cells become Null.
func Row(cells map[string]any) table.Row {
	row := make(table.Row, len(cells))
	for col, raw := range cells {
		v, err := value.FromAny(raw)
		if err != nil {
			panic(fmt.Sprintf("testutil.Row: column %q: %v", col, err))
		}
		row[col] = v
	}
	return row
}

// Dataset wraps rows in a Dataset with the full arrest header,
// panicking on structural errors.
func Dataset(rows ...table.Row) *table.Dataset {
	ds, err := table.NewDataset(table.ArrestColumns(), rows)
	if err != nil {
		panic(fmt.Sprintf("testutil.Dataset: %v", err))
	}
	return ds
}

// Arrest builds one arrest row with sensible defaults; override maps may
// set any column, including nil for an explicit Null.
func Arrest(id string, overrides ...map[string]any) table.Row {
	row := Row(map[string]any{
		table.ColReportID:    id,
		table.ColReportType:  "Booking",
		table.ColArrestDate:  "2019-06-15",
		table.ColArrestTime:  "12:00",
		table.ColAreaID:      "06",
		table.ColAreaName:    "Hollywood",
		table.ColAge:         30,
		table.ColSexCode:     "M",
		table.ColChargeGroup: "Miscellaneous Other Violations",
		table.ColChargeDesc:  "DRUNK DRIVING ALCOHOL/DRUGS",
	})
	for _, ov := range overrides {
		for col, raw := range ov {
			v, err := value.FromAny(raw)
			if err != nil {
				panic(fmt.Sprintf("testutil.Arrest: column %q: %v", col, err))
			}
			row[col] = v
		}
	}
	return row
}

// SampleArrests returns a small fixed dataset spanning two years, three
// areas, and both sexes. Counts by area: Hollywood 4, Central 3,
// Harbor 2.
func SampleArrests() *table.Dataset {
	return Dataset(
		Arrest("r01", map[string]any{table.ColArrestDate: "2018-02-10", table.ColAge: 17}),
		Arrest("r02", map[string]any{table.ColArrestDate: "2018-07-04", table.ColAge: 25}),
		Arrest("r03", map[string]any{table.ColArrestDate: "2019-01-20", table.ColAge: 41, table.ColSexCode: "F"}),
		Arrest("r04", map[string]any{table.ColArrestDate: "2019-11-02", table.ColAge: nil}),
		Arrest("r05", map[string]any{table.ColAreaName: "Central", table.ColAreaID: "01", table.ColArrestDate: "2018-03-03", table.ColAge: 62}),
		Arrest("r06", map[string]any{table.ColAreaName: "Central", table.ColAreaID: "01", table.ColArrestDate: "2019-05-09", table.ColAge: 33, table.ColSexCode: "F"}),
		Arrest("r07", map[string]any{table.ColAreaName: "Central", table.ColAreaID: "01", table.ColArrestDate: "2019-09-14", table.ColAge: 58}),
		Arrest("r08", map[string]any{table.ColAreaName: "Harbor", table.ColAreaID: "05", table.ColArrestDate: "2018-12-25", table.ColAge: 19, table.ColReportType: "RFC"}),
		Arrest("r09", map[string]any{table.ColAreaName: "Harbor", table.ColAreaID: "05", table.ColArrestDate: "2019-04-18", table.ColAge: 46}),
	)
}
