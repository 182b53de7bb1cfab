package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

const selectArrestSQL = `
	SELECT report_id, report_type, arrest_date, arrest_time,
	       area_id, area_name, age, sex_code,
	       charge_group_description, arrest_type_code, charge_description,
	       address, booking_date, booking_time, booking_location
	FROM arrests
`

// LoadDataset reads every stored arrest into an in-memory dataset.
// Rows come back in a deterministic order (report_id, binary collation)
// so repeated loads of the same store produce identical datasets. The
// derived booking_delay_hours column is computed per row.
func (s *Store) LoadDataset(ctx context.Context) (*table.Dataset, error) {
	return s.LoadWhere(ctx, nil)
}

// LoadWhere reads stored arrests matching the predicate, pushing the
// filter into SQL so large stores are not materialized just to discard
// most rows. A nil predicate loads everything.
func (s *Store) LoadWhere(ctx context.Context, pred queryspec.Predicate) (*table.Dataset, error) {
	query := selectArrestSQL
	var params []any

	if pred != nil {
		where, args, err := CompileFilter(pred)
		if err != nil {
			return nil, err
		}
		query += " WHERE " + where
		params = args
	}
	query += " ORDER BY report_id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query arrests: %w", err)
	}
	defer rows.Close()

	var out []table.Row
	for rows.Next() {
		row, err := scanArrest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate arrests: %w", err)
	}

	return table.NewDataset(table.ArrestColumns(), out)
}

func scanArrest(rows *sql.Rows) (table.Row, error) {
	var (
		reportID, reportType                               string
		arrestDate, arrestTime, areaID, areaName           sql.NullString
		age                                                sql.NullInt64
		sexCode, chargeGroup, arrestTypeCode, chargeDesc   sql.NullString
		address, bookingDate, bookingTime, bookingLocation sql.NullString
	)
	err := rows.Scan(&reportID, &reportType, &arrestDate, &arrestTime,
		&areaID, &areaName, &age, &sexCode,
		&chargeGroup, &arrestTypeCode, &chargeDesc,
		&address, &bookingDate, &bookingTime, &bookingLocation)
	if err != nil {
		return nil, fmt.Errorf("scan arrest: %w", err)
	}

	row := table.Row{
		table.ColReportID:        value.String(reportID),
		table.ColReportType:      value.String(reportType),
		table.ColArrestDate:      nullString(arrestDate),
		table.ColArrestTime:      nullString(arrestTime),
		table.ColAreaID:          nullString(areaID),
		table.ColAreaName:        nullString(areaName),
		table.ColAge:             nullInt(age),
		table.ColSexCode:         nullString(sexCode),
		table.ColChargeGroup:     nullString(chargeGroup),
		table.ColArrestTypeCode:  nullString(arrestTypeCode),
		table.ColChargeDesc:      nullString(chargeDesc),
		table.ColAddress:         nullString(address),
		table.ColBookingDate:     nullString(bookingDate),
		table.ColBookingTime:     nullString(bookingTime),
		table.ColBookingLocation: nullString(bookingLocation),
	}
	row[table.ColBookingDelayHrs] = bookingDelayHours(
		row.Get(table.ColArrestDate), row.Get(table.ColArrestTime),
		row.Get(table.ColBookingDate), row.Get(table.ColBookingTime))
	return row, nil
}

func nullString(ns sql.NullString) value.Value {
	if !ns.Valid {
		return value.Null{}
	}
	return value.String(ns.String)
}

func nullInt(ni sql.NullInt64) value.Value {
	if !ni.Valid {
		return value.Null{}
	}
	return value.Int(ni.Int64)
}
