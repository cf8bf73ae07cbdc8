package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

func TestLocationClosure_ContainsDate(t *testing.T) {
	closure := LocationClosure{StartDate: "2026-03-10", EndDate: "2026-03-12"}

	assert.True(t, closure.ContainsDate("2026-03-10"))
	assert.True(t, closure.ContainsDate("2026-03-11"))
	assert.True(t, closure.ContainsDate("2026-03-12"))
	assert.False(t, closure.ContainsDate("2026-03-09"))
	assert.False(t, closure.ContainsDate("2026-03-13"))
}

func TestScheduleOverride_ContainsDate(t *testing.T) {
	override := ScheduleOverride{StartDate: "2026-03-16", EndDate: "2026-03-16"}

	assert.True(t, override.ContainsDate("2026-03-16"))
	assert.False(t, override.ContainsDate("2026-03-17"))
}

func TestUnavailability_EffectiveBounds(t *testing.T) {
	full := Unavailability{StartDate: "2026-03-16", EndDate: "2026-03-16"}
	assert.Equal(t, types.TimeString("00:00"), full.EffectiveStart())
	assert.Equal(t, types.TimeString("24:00"), full.EffectiveEnd())

	from := types.TimeString("10:00")
	to := types.TimeString("13:30")
	partial := Unavailability{StartTime: &from, EndTime: &to}
	assert.Equal(t, from, partial.EffectiveStart())
	assert.Equal(t, to, partial.EffectiveEnd())
}

func TestWeekSchedule_ForWeekday(t *testing.T) {
	schedule := WeekSchedule{
		Mon: []DayInterval{{Start: "09:00", End: "18:00"}},
		Sat: []DayInterval{{Start: "10:00", End: "14:00"}},
	}

	assert.Len(t, schedule.ForWeekday(time.Monday), 1)
	assert.Len(t, schedule.ForWeekday(time.Saturday), 1)
	assert.Empty(t, schedule.ForWeekday(time.Sunday))
}

func TestBooking_StatusHelpers(t *testing.T) {
	tests := []struct {
		status    BookingStatus
		active    bool
		cancel    bool
		cancelled bool
	}{
		{StatusAwaitingPayment, true, true, false},
		{StatusConfirmed, true, true, false},
		{StatusInProgress, true, false, false},
		{StatusCompleted, true, false, false},
		{StatusCancelledByCustomer, false, false, true},
		{StatusCancelledByCompany, false, false, true},
		{StatusNoShow, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := Booking{Status: tt.status}
			assert.Equal(t, tt.active, b.IsActive())
			assert.Equal(t, tt.cancel, b.CanBeCancelled())
			assert.Equal(t, tt.cancelled, b.IsCancelled())
		})
	}
}

func TestGapStrategy_Valid(t *testing.T) {
	assert.True(t, StrategyRegular.Valid())
	assert.True(t, StrategyReduceGaps.Valid())
	assert.True(t, StrategyEliminateGaps.Valid())
	assert.False(t, GapStrategy("PACK").Valid())
	assert.False(t, GapStrategy("").Valid())
}
