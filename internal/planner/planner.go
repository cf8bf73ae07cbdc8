// Package planner вычисляет валидные стартовые времена для цепочки услуг.
// Чистое синхронное вычисление над снимком данных: без стейта, без побочных
// эффектов, детерминированное при фиксированном Now — безопасно вызывать
// конкурентно для разных запросов.
package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/interval"
	"github.com/m04kA/SMC-TimeslotService/pkg/timeutil"
)

// Input снимок данных для одного запроса (dateISO, location)
// Все сущности — read-only входы, планировщик их не изменяет
type Input struct {
	DateISO          string
	Location         domain.LocationConfig
	Requests         []domain.ServiceRequest // упорядоченная цепочка услуг
	Services         []domain.LocationService
	Staff            []domain.Staff
	Capabilities     []domain.StaffCapability
	Overrides        []domain.ScheduleOverride
	Unavailabilities []domain.Unavailability
	Assignments      []domain.AssignmentInterval
	Now              time.Time // опорное "сейчас"; фиксируется в тестах
}

// serviceCandidate услуга цепочки с кандидатами на исполнение
type serviceCandidate struct {
	ServiceID uuid.UUID
	Duration  int
	StaffIDs  []uuid.UUID
}

// Compute возвращает валидные слоты в порядке возрастания времени начала.
// Результат обрезается по domain.MaxTimeslotResults: усечённый список — это
// "первые N валидных слотов", а не "все валидные слоты".
func Compute(in Input) []domain.Timeslot {
	tz := in.Location.TimeZone
	slotMinutes := in.Location.SlotGranularityMinutes
	if slotMinutes <= 0 {
		return nil
	}

	dayStart, dayEnd := timeutil.DayBoundsUTC(in.DateISO, tz)
	if dayStart.IsZero() || !dayEnd.After(dayStart) {
		return nil
	}

	// Ограничение максимальной глубины бронирования: локальная полночь
	// запрошенной даты не должна быть дальше, чем now + N месяцев
	maxAhead := in.Now.AddDate(0, in.Location.CustomerBookingMaxMonthsAhead, 0)
	if dayStart.After(maxAhead) {
		return nil
	}

	// Свободные интервалы каждого сотрудника локации на дату
	freeByStaff := make(map[uuid.UUID][]interval.Interval, len(in.Staff))
	staffOrder := make([]uuid.UUID, 0, len(in.Staff))
	anyFree := false
	for i := range in.Staff {
		s := &in.Staff[i]
		if s.LocationID != in.Location.ID {
			continue
		}
		free := StaffDayFree(s, in.Overrides, in.Unavailabilities, in.Assignments, in.DateISO, tz)
		freeByStaff[s.ID] = free
		staffOrder = append(staffOrder, s.ID)
		if len(free) > 0 {
			anyFree = true
		}
	}
	if !anyFree {
		return nil
	}

	candidates, hasAnyPin, totalDuration := buildCandidates(in, staffOrder)
	if candidates == nil {
		return nil
	}

	leadStart := in.Now.Add(time.Duration(in.Location.CustomerBookingLeadMinutes) * time.Minute)
	slotStep := time.Duration(slotMinutes) * time.Minute

	var results []domain.Timeslot

	for t := dayStart; t.Before(dayEnd); t = t.Add(slotStep) {
		if t.Before(leadStart) {
			continue
		}

		// Сначала пробуем разместить всю цепочку у одного сотрудника:
		// бронирование без смены мастера предпочтительнее. Это только
		// приоритет поиска, не жёсткое ограничение.
		placed := false
		if !hasAnyPin {
			placed = trySingleStaff(in, freeByStaff, staffOrder, candidates, t, totalDuration, slotMinutes, &results, tz)
		}

		if !placed {
			chain, ok := placeChain(freeByStaff, candidates, t)
			if ok && applyStrategyFilter(in.Location.Strategy, freeByStaff, chain, slotMinutes) {
				results = append(results, toTimeslot(chain, tz))
			}
		}

		if len(results) >= domain.MaxTimeslotResults {
			break
		}
	}

	return results
}

// buildCandidates разворачивает запросы в кандидатов на исполнение:
// закреплённый сотрудник, иначе сотрудники с подтверждённой квалификацией,
// иначе (когда квалификации не заданы) все сотрудники локации
func buildCandidates(in Input, staffOrder []uuid.UUID) ([]serviceCandidate, bool, int) {
	durationByService := make(map[uuid.UUID]int, len(in.Services))
	for i := range in.Services {
		durationByService[in.Services[i].ID] = in.Services[i].DurationMinutes
	}

	capableByService := make(map[uuid.UUID][]uuid.UUID)
	for i := range in.Capabilities {
		c := &in.Capabilities[i]
		capableByService[c.ServiceID] = append(capableByService[c.ServiceID], c.StaffID)
	}

	candidates := make([]serviceCandidate, 0, len(in.Requests))
	hasAnyPin := false
	total := 0

	for i := range in.Requests {
		req := &in.Requests[i]
		duration, ok := durationByService[req.ServiceID]
		if !ok || duration <= 0 {
			// Неизвестная или неактивная услуга — цепочка неразместима
			return nil, false, 0
		}
		total += duration

		var staffIDs []uuid.UUID
		switch {
		case req.StaffID != nil:
			hasAnyPin = true
			staffIDs = []uuid.UUID{*req.StaffID}
		case len(capableByService[req.ServiceID]) > 0:
			staffIDs = capableByService[req.ServiceID]
		default:
			staffIDs = staffOrder
		}

		candidates = append(candidates, serviceCandidate{
			ServiceID: req.ServiceID,
			Duration:  duration,
			StaffIDs:  staffIDs,
		})
	}

	return candidates, hasAnyPin, total
}

// trySingleStaff пытается разместить всю цепочку у одного сотрудника,
// начиная с t. Возвращает true, если слот добавлен в results.
func trySingleStaff(
	in Input,
	freeByStaff map[uuid.UUID][]interval.Interval,
	staffOrder []uuid.UUID,
	candidates []serviceCandidate,
	t time.Time,
	totalDuration, slotMinutes int,
	results *[]domain.Timeslot,
	tz string,
) bool {
	whole := interval.New(t, t.Add(time.Duration(totalDuration)*time.Minute))

	for _, staffID := range staffOrder {
		if !eligibleForAll(staffID, candidates) {
			continue
		}
		if !covers(freeByStaff[staffID], whole) {
			continue
		}

		chain := make([]chainAssignment, 0, len(candidates))
		cursor := t
		for _, sc := range candidates {
			end := cursor.Add(time.Duration(sc.Duration) * time.Minute)
			chain = append(chain, chainAssignment{
				ServiceID: sc.ServiceID,
				StaffID:   staffID,
				Span:      interval.New(cursor, end),
			})
			cursor = end
		}

		if applyStrategyFilter(in.Location.Strategy, freeByStaff, chain, slotMinutes) {
			*results = append(*results, toTimeslot(chain, tz))
			return true
		}
	}
	return false
}

// placeChain размещает цепочку, подбирая для каждой услуги первого кандидата,
// чей свободный интервал целиком покрывает её отрезок
func placeChain(
	freeByStaff map[uuid.UUID][]interval.Interval,
	candidates []serviceCandidate,
	t time.Time,
) ([]chainAssignment, bool) {
	chain := make([]chainAssignment, 0, len(candidates))
	cursor := t

	for _, sc := range candidates {
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
			return nil, false
		}

		chain = append(chain, chainAssignment{
			ServiceID: sc.ServiceID,
			StaffID:   *picked,
			Span:      span,
		})
		cursor = span.End
	}

	return chain, true
}

// eligibleForAll проверяет, что сотрудник входит в кандидаты каждой услуги цепочки
func eligibleForAll(staffID uuid.UUID, candidates []serviceCandidate) bool {
	for _, sc := range candidates {
		found := false
		for _, id := range sc.StaffIDs {
			if id == staffID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func covers(set []interval.Interval, span interval.Interval) bool {
	for _, iv := range set {
		if iv.Contains(span) {
			return true
		}
	}
	return false
}

func toTimeslot(chain []chainAssignment, tz string) domain.Timeslot {
	assignments := make([]domain.TimeslotAssignment, len(chain))
	for i, a := range chain {
		assignments[i] = domain.TimeslotAssignment{
			ServiceID:  a.ServiceID,
			StaffID:    a.StaffID,
			StartLocal: timeutil.UTCToLocalHM(a.Span.Start, tz),
			EndLocal:   timeutil.UTCToLocalHM(a.Span.End, tz),
		}
	}
	return domain.Timeslot{
		StartLocal:  assignments[0].StartLocal,
		EndLocal:    assignments[len(assignments)-1].EndLocal,
		TimeZone:    tz,
		Assignments: assignments,
	}
}
