package planner

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/pkg/interval"
)

var (
	// ErrPinnedStaffBusy закреплённый сотрудник занят или не работает в запрошенный отрезок
	ErrPinnedStaffBusy = errors.New("planner: pinned staff unavailable for requested span")

	// ErrChainUnplaceable цепочку невозможно разместить с запрошенного времени
	ErrChainUnplaceable = errors.New("planner: chain cannot be placed at requested start")
)

// PlacedAssignment одно назначение размещённой цепочки
type PlacedAssignment struct {
	ServiceID uuid.UUID
	StaffID   uuid.UUID
	Start     time.Time // UTC
	End       time.Time // UTC
}

// PlaceChainAt размещает цепочку услуг строго с момента start поверх того же
// снимка данных, что и Compute. Используется пред-проверкой конфликтов при
// создании бронирования: отказ различает занятость закреплённого сотрудника
// и общую неразместимость.
func PlaceChainAt(in Input, start time.Time) ([]PlacedAssignment, error) {
	tz := in.Location.TimeZone

	freeByStaff := make(map[uuid.UUID][]interval.Interval, len(in.Staff))
	staffOrder := make([]uuid.UUID, 0, len(in.Staff))
	for i := range in.Staff {
		s := &in.Staff[i]
		if s.LocationID != in.Location.ID {
			continue
		}
		freeByStaff[s.ID] = StaffDayFree(s, in.Overrides, in.Unavailabilities, in.Assignments, in.DateISO, tz)
		staffOrder = append(staffOrder, s.ID)
	}

	candidates, hasAnyPin, totalDuration := buildCandidates(in, staffOrder)
	if candidates == nil {
		return nil, ErrChainUnplaceable
	}

	// Как и при поиске, сперва пробуем одного сотрудника на всю цепочку
	if !hasAnyPin {
		whole := interval.New(start, start.Add(time.Duration(totalDuration)*time.Minute))
		for _, staffID := range staffOrder {
			if !eligibleForAll(staffID, candidates) {
				continue
			}
			if !covers(freeByStaff[staffID], whole) {
				continue
			}
			return buildPlacement(candidates, staffID, start), nil
		}
	}

	chain := make([]PlacedAssignment, 0, len(candidates))
	cursor := start

	for i, sc := range candidates {
		span := interval.New(cursor, cursor.Add(time.Duration(sc.Duration)*time.Minute))

		var picked *uuid.UUID
		for _, staffID := range sc.StaffIDs {
			if covers(freeByStaff[staffID], span) {
				id := staffID
				picked = &id
				break
			}
		}
		if picked == nil {
			if in.Requests[i].StaffID != nil {
				return nil, ErrPinnedStaffBusy
			}
			return nil, ErrChainUnplaceable
		}

		chain = append(chain, PlacedAssignment{
			ServiceID: sc.ServiceID,
			StaffID:   *picked,
			Start:     span.Start,
			End:       span.End,
		})
		cursor = span.End
	}

	return chain, nil
}

// buildPlacement строит цепочку назначений одного сотрудника
func buildPlacement(candidates []serviceCandidate, staffID uuid.UUID, start time.Time) []PlacedAssignment {
	chain := make([]PlacedAssignment, 0, len(candidates))
	cursor := start
	for _, sc := range candidates {
		end := cursor.Add(time.Duration(sc.Duration) * time.Minute)
		chain = append(chain, PlacedAssignment{
			ServiceID: sc.ServiceID,
			StaffID:   staffID,
			Start:     cursor,
			End:       end,
		})
		cursor = end
	}
	return chain
}
