package table

// Column names of the arrest-record table. The shape follows the LAPD
// arrest extract: one flat row per report, nearly every field nullable.
const (
	ColReportID         = "report_id"
	ColReportType       = "report_type" // "Booking" or "RFC"
	ColArrestDate       = "arrest_date" // ISO date, nullable
	ColArrestTime       = "arrest_time" // "HH:MM", nullable
	ColAreaID           = "area_id"
	ColAreaName         = "area_name"
	ColAge              = "age"
	ColSexCode          = "sex_code" // "M" or "F", nullable
	ColChargeGroup      = "charge_group_description"
	ColArrestTypeCode   = "arrest_type_code"
	ColChargeDesc       = "charge_description"
	ColAddress          = "address"
	ColBookingDate      = "booking_date"
	ColBookingTime      = "booking_time"
	ColBookingLocation  = "booking_location"
	ColBookingDelayHrs  = "booking_delay_hours" // derived at load
)

// ArrestColumns returns the full arrest dataset header, including the
// derived booking-delay column, in canonical order.
func ArrestColumns() []string {
	return []string{
		ColReportID,
		ColReportType,
		ColArrestDate,
		ColArrestTime,
		ColAreaID,
		ColAreaName,
		ColAge,
		ColSexCode,
		ColChargeGroup,
		ColArrestTypeCode,
		ColChargeDesc,
		ColAddress,
		ColBookingDate,
		ColBookingTime,
		ColBookingLocation,
		ColBookingDelayHrs,
	}
}
