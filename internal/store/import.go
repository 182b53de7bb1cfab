package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/blotterlabs/blotter/internal/table"
)

// ImportCSV loads an arrest extract into the store inside a single
// transaction. Blank cells are stored as NULL. Rows without a
// report_id are assigned a fresh UUIDv7 so every stored row has a
// stable primary key. Returns the number of rows imported.
//
// Re-importing a row with an existing report_id replaces it.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return 0, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return 0, fmt.Errorf("read CSV header: %w", err)
	}

	known := make(map[string]bool, len(csvColumns()))
	for _, col := range csvColumns() {
		known[col] = true
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		if !known[col] {
			return 0, fmt.Errorf("unknown CSV column %q", col)
		}
		index[col] = i
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertArrestSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read CSV record: %w", err)
		}

		cell := func(col string) any {
			i, ok := index[col]
			if !ok || record[i] == "" {
				return nil
			}
			return norm.NFC.String(record[i])
		}

		reportID := cell(table.ColReportID)
		if reportID == nil {
			reportID = uuid.Must(uuid.NewV7()).String()
		}
		reportType := cell(table.ColReportType)
		if reportType == nil {
			return 0, fmt.Errorf("line %d: report_type is required", line)
		}

		var age any
		if raw := cell(table.ColAge); raw != nil {
			n, err := strconv.ParseInt(raw.(string), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("line %d: parse age %q: %w", line, raw, err)
			}
			age = n
		}

		_, err = stmt.ExecContext(ctx,
			reportID,
			reportType,
			cell(table.ColArrestDate),
			cell(table.ColArrestTime),
			cell(table.ColAreaID),
			cell(table.ColAreaName),
			age,
			cell(table.ColSexCode),
			cell(table.ColChargeGroup),
			cell(table.ColArrestTypeCode),
			cell(table.ColChargeDesc),
			cell(table.ColAddress),
			cell(table.ColBookingDate),
			cell(table.ColBookingTime),
			cell(table.ColBookingLocation),
		)
		if err != nil {
			return 0, fmt.Errorf("line %d: insert: %w", line, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

const insertArrestSQL = `
	INSERT OR REPLACE INTO arrests (
		report_id, report_type, arrest_date, arrest_time,
		area_id, area_name, age, sex_code,
		charge_group_description, arrest_type_code, charge_description,
		address, booking_date, booking_time, booking_location
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
