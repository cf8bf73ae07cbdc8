// Package timeutil converts between location-local wall-clock times and UTC
// instants. Every function degrades instead of failing: an unknown or
// malformed IANA timezone identifier falls back to UTC, a malformed "HH:MM"
// falls back to "00:00", so one bad row never fails a whole computation.
package timeutil

import (
	"sync"
	"time"

	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// DateFormat формат локальной календарной даты
const DateFormat = "2006-01-02"

var (
	locMu    sync.RWMutex
	locCache = map[string]*time.Location{}
)

// LocationOrUTC resolves an IANA timezone identifier, caching lookups.
// Unknown or empty identifiers resolve to UTC, never an error.
func LocationOrUTC(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}

	locMu.RLock()
	loc, ok := locCache[tz]
	locMu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	locMu.Lock()
	locCache[tz] = loc
	locMu.Unlock()
	return loc
}

// IsValidTimeZone reports whether tz resolves to a known IANA location.
func IsValidTimeZone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// LocalToUTC converts a local calendar date and wall-clock time in the given
// timezone to the corresponding UTC instant. The timezone database resolves
// the exact offset for that date, including DST transitions. "24:00" means
// midnight at the start of the next calendar day. A malformed date yields the
// zero time; a malformed time-of-day is treated as "00:00".
func LocalToUTC(dateISO string, hm types.TimeString, tz string) time.Time {
	day, err := time.Parse(DateFormat, dateISO)
	if err != nil {
		return time.Time{}
	}

	minutes, err := hm.Minutes()
	if err != nil {
		minutes = 0
	}

	loc := LocationOrUTC(tz)
	// time.Date normalizes minute overflow, so 1440 rolls into the next day.
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, loc).UTC()
}

// UTCToLocalHM formats a UTC instant as local "HH:MM" in the given timezone,
// falling back to UTC fields for unknown timezones.
func UTCToLocalHM(t time.Time, tz string) types.TimeString {
	return types.TimeString(t.In(LocationOrUTC(tz)).Format("15:04"))
}

// UTCToLocalDate formats a UTC instant as a local "YYYY-MM-DD" calendar date
// in the given timezone.
func UTCToLocalDate(t time.Time, tz string) string {
	return t.In(LocationOrUTC(tz)).Format(DateFormat)
}

// LocalWeekday returns the weekday of the local calendar date in the given
// timezone. A malformed date falls back to Sunday.
func LocalWeekday(dateISO string, tz string) time.Weekday {
	day, err := time.Parse(DateFormat, dateISO)
	if err != nil {
		return time.Sunday
	}
	loc := LocationOrUTC(tz)
	// Local noon is always inside the local calendar day, clear of DST edges.
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, loc).Weekday()
}

// DayBoundsUTC returns the UTC instants of local "00:00" and "24:00" for the
// calendar date in the given timezone.
func DayBoundsUTC(dateISO string, tz string) (time.Time, time.Time) {
	return LocalToUTC(dateISO, "00:00", tz), LocalToUTC(dateISO, "24:00", tz)
}

// ValidDateISO reports whether s is a well-formed "YYYY-MM-DD" date.
func ValidDateISO(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}
