package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// DayInterval is a single local working interval within one day,
// e.g. {"09:00", "13:00"}. End must be later than Start.
type DayInterval struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// WeekSchedule maps each weekday to its ordered list of local working
// intervals. An empty list means a day off; a nil WeekSchedule pointer on the
// owning entity means no schedule at all (closed every day).
type WeekSchedule struct {
	Mon []DayInterval `json:"mon"`
	Tue []DayInterval `json:"tue"`
	Wed []DayInterval `json:"wed"`
	Thu []DayInterval `json:"thu"`
	Fri []DayInterval `json:"fri"`
	Sat []DayInterval `json:"sat"`
	Sun []DayInterval `json:"sun"`
}

// ForWeekday returns the interval list for the given weekday
func (w *WeekSchedule) ForWeekday(day time.Weekday) []DayInterval {
	switch day {
	case time.Monday:
		return w.Mon
	case time.Tuesday:
		return w.Tue
	case time.Wednesday:
		return w.Wed
	case time.Thursday:
		return w.Thu
	case time.Friday:
		return w.Fri
	case time.Saturday:
		return w.Sat
	case time.Sunday:
		return w.Sun
	default:
		return nil
	}
}

// Staff represents a staff member at a location together with their weekly
// regular operating schedule
type Staff struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Name       string
	// Schedule nil означает полное отсутствие расписания (сотрудник недоступен каждый день)
	Schedule *WeekSchedule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleOverride entirely replaces a staff member's regular schedule for
// every date inside the inclusive local date range
type ScheduleOverride struct {
	ID        uuid.UUID
	StaffID   uuid.UUID
	StartDate string // "YYYY-MM-DD"
	EndDate   string
	Schedule  WeekSchedule
}

// ContainsDate returns true if the date falls inside the override range
func (o *ScheduleOverride) ContainsDate(dateISO string) bool {
	return dateISO >= o.StartDate && dateISO <= o.EndDate
}

// Unavailability is a vacation/sick-leave/ad-hoc block for a staff member.
// A missing start time means "00:00", a missing end time means "24:00",
// i.e. the whole local day is blocked.
type Unavailability struct {
	ID        uuid.UUID
	StaffID   uuid.UUID
	StartDate string // "YYYY-MM-DD"
	EndDate   string
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Reason    *string
}

// ContainsDate returns true if the date falls inside the unavailability range
func (u *Unavailability) ContainsDate(dateISO string) bool {
	return dateISO >= u.StartDate && dateISO <= u.EndDate
}

// EffectiveStart returns the local start time of the block ("00:00" when absent)
func (u *Unavailability) EffectiveStart() types.TimeString {
	if u.StartTime == nil || u.StartTime.IsZero() {
		return "00:00"
	}
	return *u.StartTime
}

// EffectiveEnd returns the local end time of the block ("24:00" when absent)
func (u *Unavailability) EffectiveEnd() types.TimeString {
	if u.EndTime == nil || u.EndTime.IsZero() {
		return "24:00"
	}
	return *u.EndTime
}
