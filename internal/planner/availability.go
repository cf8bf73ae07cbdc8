package planner

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/interval"
	"github.com/m04kA/SMC-TimeslotService/pkg/timeutil"
)

// resolveSchedule возвращает действующее недельное расписание сотрудника на дату:
// первый по порядку override, чей диапазон содержит дату, иначе обычное
// расписание; nil означает, что сотрудник недоступен весь день
func resolveSchedule(staff *domain.Staff, overrides []domain.ScheduleOverride, dateISO string) *domain.WeekSchedule {
	for i := range overrides {
		if overrides[i].StaffID == staff.ID && overrides[i].ContainsDate(dateISO) {
			return &overrides[i].Schedule
		}
	}
	return staff.Schedule
}

// buildWorkingIntervals строит рабочие интервалы сотрудника на дату в UTC,
// обрезанные по границам локального календарного дня
func buildWorkingIntervals(schedule *domain.WeekSchedule, dateISO, tz string) []interval.Interval {
	if schedule == nil {
		return nil
	}

	weekday := timeutil.LocalWeekday(dateISO, tz)
	local := schedule.ForWeekday(weekday)
	if len(local) == 0 {
		return nil
	}

	dayStart, dayEnd := timeutil.DayBoundsUTC(dateISO, tz)
	day := interval.New(dayStart, dayEnd)

	out := make([]interval.Interval, 0, len(local))
	for _, iv := range local {
		work := interval.New(
			timeutil.LocalToUTC(dateISO, iv.Start, tz),
			timeutil.LocalToUTC(dateISO, iv.End, tz),
		)
		if work.IsEmpty() {
			continue
		}
		if clipped, ok := interval.Intersect(work, day); ok {
			out = append(out, clipped)
		}
	}
	return out
}

// buildUnavailabilityBlocks строит блокирующие интервалы недоступности
// сотрудника на дату; отсутствующее время начала/конца означает блокировку
// всего локального дня
func buildUnavailabilityBlocks(staffID uuid.UUID, unavailabilities []domain.Unavailability, dateISO, tz string) []interval.Interval {
	var blocks []interval.Interval
	for i := range unavailabilities {
		u := &unavailabilities[i]
		if u.StaffID != staffID || !u.ContainsDate(dateISO) {
			continue
		}
		blk := interval.New(
			timeutil.LocalToUTC(dateISO, u.EffectiveStart(), tz),
			timeutil.LocalToUTC(dateISO, u.EffectiveEnd(), tz),
		)
		if !blk.IsEmpty() {
			blocks = append(blocks, blk)
		}
	}
	return blocks
}

// buildBookedBlocks строит блокирующие интервалы уже существующих назначений
// сотрудника, пересечённые с границами дня
func buildBookedBlocks(staffID uuid.UUID, assignments []domain.AssignmentInterval, day interval.Interval) []interval.Interval {
	var blocks []interval.Interval
	for i := range assignments {
		a := &assignments[i]
		if a.StaffID != staffID {
			continue
		}
		if blk, ok := interval.Intersect(interval.New(a.StartTime, a.EndTime), day); ok {
			blocks = append(blocks, blk)
		}
	}
	return blocks
}

// StaffDayFree вычисляет свободные интервалы сотрудника на дату:
// рабочие часы (с учётом override) минус недоступности минус занятые
// назначениями блоки. Пустой результат означает выходной, отпуск или
// полностью занятый день — это не ошибка.
func StaffDayFree(
	staff *domain.Staff,
	overrides []domain.ScheduleOverride,
	unavailabilities []domain.Unavailability,
	assignments []domain.AssignmentInterval,
	dateISO, tz string,
) []interval.Interval {
	schedule := resolveSchedule(staff, overrides, dateISO)
	free := buildWorkingIntervals(schedule, dateISO, tz)
	if len(free) == 0 {
		return nil
	}

	if blocks := buildUnavailabilityBlocks(staff.ID, unavailabilities, dateISO, tz); len(blocks) > 0 {
		free = interval.Subtract(free, blocks)
	}
	if len(free) == 0 {
		return nil
	}

	dayStart, dayEnd := timeutil.DayBoundsUTC(dateISO, tz)
	if blocks := buildBookedBlocks(staff.ID, assignments, interval.New(dayStart, dayEnd)); len(blocks) > 0 {
		free = interval.Subtract(free, blocks)
	}
	return free
}
