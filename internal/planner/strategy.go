package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/interval"
)

// chainAssignment одно размещённое звено цепочки услуг
type chainAssignment struct {
	ServiceID uuid.UUID
	StaffID   uuid.UUID
	Span      interval.Interval
}

// applyStrategyFilter решает, предлагать ли размещённую цепочку клиенту,
// согласно стратегии упаковки слотов локации
//
// REGULAR        — без ограничений
// ELIMINATE_GAPS — цепочка должна касаться границы доступности хотя бы с
//                  одной стороны (начало совпадает с началом свободного
//                  интервала первого сотрудника ИЛИ конец с концом интервала
//                  последнего)
// REDUCE_GAPS    — зазор до и после цепочки внутри содержащего свободного
//                  интервала либо нулевой, либо не меньше одной гранулярности
//                  (запрещает щели, которые никогда не заполнить)
func applyStrategyFilter(
	strategy domain.GapStrategy,
	freeByStaff map[uuid.UUID][]interval.Interval,
	chain []chainAssignment,
	slotMinutes int,
) bool {
	if strategy == domain.StrategyRegular || len(chain) == 0 {
		return true
	}

	first := chain[0]
	last := chain[len(chain)-1]

	if strategy == domain.StrategyEliminateGaps {
		for _, iv := range freeByStaff[first.StaffID] {
			if iv.Start.Equal(first.Span.Start) {
				return true
			}
		}
		for _, iv := range freeByStaff[last.StaffID] {
			if iv.End.Equal(last.Span.End) {
				return true
			}
		}
		return false
	}

	// REDUCE_GAPS
	firstIv, firstOk := findContaining(freeByStaff[first.StaffID], first.Span)
	lastIv, lastOk := findContaining(freeByStaff[last.StaffID], last.Span)
	if !firstOk || !lastOk {
		// Цепочка вне известных интервалов — не режем, решает общий поиск
		return true
	}

	gapBefore := minutesBetween(firstIv.Start, first.Span.Start)
	gapAfter := minutesBetween(last.Span.End, lastIv.End)
	return (gapBefore == 0 || gapBefore >= slotMinutes) &&
		(gapAfter == 0 || gapAfter >= slotMinutes)
}

func findContaining(set []interval.Interval, inner interval.Interval) (interval.Interval, bool) {
	for _, iv := range set {
		if iv.Contains(inner) {
			return iv, true
		}
	}
	return interval.Interval{}, false
}

func minutesBetween(a, b time.Time) int {
	return int(b.Sub(a).Round(time.Minute) / time.Minute)
}
