package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// csvColumns returns the columns a source CSV may carry: the storage
// columns, without the derived booking-delay column.
func csvColumns() []string {
	cols := table.ArrestColumns()
	return cols[:len(cols)-1]
}

// ReadCSV parses an arrest extract into an in-memory dataset. The
// header row maps columns by name, so column order in the file does
// not matter. Blank cells become Null, the age column parses as an
// integer, and text cells are NFC-normalized so that lookups like
// area_name = "Hollywood" behave the same regardless of how the
// extract encoded accented characters.
//
// The derived booking_delay_hours column is computed per row.
func ReadCSV(r io.Reader) (*table.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	known := make(map[string]bool, len(csvColumns()))
	for _, col := range csvColumns() {
		known[col] = true
	}
	for _, col := range header {
		if !known[col] {
			return nil, fmt.Errorf("unknown CSV column %q", col)
		}
	}

	var rows []table.Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}

		row := table.Row{}
		for i, col := range header {
			cell, err := parseCell(col, record[i])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, col, err)
			}
			row[col] = cell
		}
		row[table.ColBookingDelayHrs] = bookingDelayHours(
			row.Get(table.ColArrestDate), row.Get(table.ColArrestTime),
			row.Get(table.ColBookingDate), row.Get(table.ColBookingTime))
		rows = append(rows, row)
	}

	return table.NewDataset(table.ArrestColumns(), rows)
}

// parseCell converts one raw CSV cell into a typed value. Blank cells
// are Null everywhere, numeric columns parse as integers, and
// everything else is an NFC-normalized string.
func parseCell(col, raw string) (value.Value, error) {
	if raw == "" {
		return value.Null{}, nil
	}
	switch col {
	case table.ColAge:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse age %q: %w", raw, err)
		}
		return value.Int(n), nil
	default:
		return value.String(norm.NFC.String(raw)), nil
	}
}
