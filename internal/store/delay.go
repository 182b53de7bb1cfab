package store

import (
	"time"

	"github.com/blotterlabs/blotter/internal/value"
)

// bookingDelayHours derives the hours elapsed between arrest and
// booking from the date and time cells. Any missing or unparseable
// part yields Null. Negative delays occur in the source extract
// (booking recorded before arrest) and pass through unvalidated.
func bookingDelayHours(arrestDate, arrestTime, bookingDate, bookingTime value.Value) value.Value {
	arrested, ok := combineDateTime(arrestDate, arrestTime)
	if !ok {
		return value.Null{}
	}
	booked, ok := combineDateTime(bookingDate, bookingTime)
	if !ok {
		return value.Null{}
	}
	return value.Float(booked.Sub(arrested).Minutes() / 60)
}

func combineDateTime(date, clock value.Value) (time.Time, bool) {
	ds, ok := date.(value.String)
	if !ok {
		return time.Time{}, false
	}
	cs, ok := clock.(value.String)
	if !ok {
		return time.Time{}, false
	}
	hour, minute, ok := parseClock(string(cs))
	if !ok {
		return time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", string(ds))
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), true
}

// parseClock accepts "HH:MM", "HH:MM:SS", and the bare "HHMM" form the
// source extract uses. Seconds are dropped.
func parseClock(s string) (hour, minute int, ok bool) {
	switch len(s) {
	case 4:
		if !allDigits(s) {
			return 0, 0, false
		}
		hour = int(s[0]-'0')*10 + int(s[1]-'0')
		minute = int(s[2]-'0')*10 + int(s[3]-'0')
	case 5, 8:
		if s[2] != ':' || !allDigits(s[:2]) || !allDigits(s[3:5]) {
			return 0, 0, false
		}
		hour = int(s[0]-'0')*10 + int(s[1]-'0')
		minute = int(s[3]-'0')*10 + int(s[4]-'0')
	default:
		return 0, 0, false
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
