package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/location"
	"github.com/m04kA/SMC-TimeslotService/internal/planner"
	"github.com/m04kA/SMC-TimeslotService/pkg/timeutil"
	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// UseCase use case для создания бронирования цепочки услуг
type UseCase struct {
	locationRepo LocationRepository
	staffRepo    StaffRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	locationRepo LocationRepository,
	staffRepo StaffRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		locationRepo: locationRepo,
		staffRepo:    staffRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Пред-проверка конфликтов и вставка выполняются в сериализуемой транзакции:
// два конкурирующих бронирования одного сотрудника не пройдут оба, а
// EXCLUDE-ограничения БД остаются последней линией защиты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%s, location=%s, date=%s, time=%s, services=%d",
		req.CustomerID, req.LocationID, req.Date, req.StartTime, len(req.Services))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем конфигурацию локации
	config, err := uc.locationRepo.GetConfig(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("CreateBooking: location %s not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get location config: %v", err)
		return nil, fmt.Errorf("%w: failed to get location config: %v", ErrInternal, err)
	}

	// 4. Время начала должно лежать на сетке слотов локации
	if err := validateSlotAlignment(req.StartTime, config.SlotGranularityMinutes); err != nil {
		uc.logger.Warn("CreateBooking: slot alignment check failed: %v", err)
		return nil, err
	}

	// 5. Закрытия локации
	closures, err := uc.locationRepo.GetClosuresForDate(ctx, req.LocationID, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get closures: %v", err)
		return nil, fmt.Errorf("%w: failed to get closures: %v", ErrInternal, err)
	}
	if len(closures) > 0 {
		uc.logger.Warn("CreateBooking: location %s is closed on %s", req.LocationID, req.Date)
		return nil, ErrLocationClosed
	}

	// 6. Временные рамки: лид-тайм и горизонт бронирования
	tz := config.TimeZone
	startUTC := timeutil.LocalToUTC(req.Date, req.StartTime, tz)
	dayStart, dayEnd := timeutil.DayBoundsUTC(req.Date, tz)
	if dayStart.IsZero() || !dayEnd.After(dayStart) {
		return nil, fmt.Errorf("%w: date is not valid in location timezone", ErrInvalidInput)
	}

	leadStart := now.Add(time.Duration(config.CustomerBookingLeadMinutes) * time.Minute)
	if startUTC.Before(leadStart) {
		uc.logger.Warn("CreateBooking: start %s violates lead time of %d minutes",
			startUTC.Format(time.RFC3339), config.CustomerBookingLeadMinutes)
		return nil, fmt.Errorf("%w: must book at least %d minutes in advance",
			ErrTooLateToBook, config.CustomerBookingLeadMinutes)
	}

	maxAhead := now.AddDate(0, config.CustomerBookingMaxMonthsAhead, 0)
	if dayStart.After(maxAhead) {
		uc.logger.Warn("CreateBooking: date %s is beyond %d months ahead", req.Date, config.CustomerBookingMaxMonthsAhead)
		return nil, fmt.Errorf("%w: can only book %d months in advance",
			ErrDateTooFarInFuture, config.CustomerBookingMaxMonthsAhead)
	}

	// 7. Проверяем запрошенные услуги
	serviceIDs := make([]uuid.UUID, 0, len(req.Services))
	for i := range req.Services {
		serviceIDs = append(serviceIDs, req.Services[i].ServiceID)
	}

	services, err := uc.locationRepo.GetServicesByIDs(ctx, req.LocationID, serviceIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	serviceByID, err := validateServices(req.Services, services)
	if err != nil {
		uc.logger.Warn("CreateBooking: service validation failed: %v", err)
		return nil, err
	}

	// 8. Снятие закреплений, если выбор сотрудника клиентом запрещён
	items := req.Services
	if !config.AllowCustomerSelectStaff {
		items = stripStaffPins(items)
	}

	// 9. Сотрудники и их расписания на дату
	staff, err := uc.staffRepo.GetByLocation(ctx, req.LocationID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get staff: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if err := validatePinnedStaff(items, staff); err != nil {
		uc.logger.Warn("CreateBooking: staff validation failed: %v", err)
		return nil, err
	}

	staffIDs := make([]uuid.UUID, 0, len(staff))
	for _, member := range staff {
		staffIDs = append(staffIDs, member.ID)
	}

	overrides, err := uc.staffRepo.GetOverridesForDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get schedule overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule overrides: %v", ErrInternal, err)
	}

	unavailabilities, err := uc.staffRepo.GetUnavailabilitiesForDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get unavailabilities: %v", err)
		return nil, fmt.Errorf("%w: failed to get unavailabilities: %v", ErrInternal, err)
	}

	capabilities, err := uc.staffRepo.GetCapabilitiesByLocation(ctx, req.LocationID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get capabilities: %v", err)
		return nil, fmt.Errorf("%w: failed to get capabilities: %v", ErrInternal, err)
	}

	totalDuration := 0
	for i := range items {
		totalDuration += serviceByID[items[i].ServiceID].DurationMinutes
	}
	endUTC := startUTC.Add(time.Duration(totalDuration) * time.Minute)

	// Диапазон занятости: сутки даты, расширенные хвостом цепочки за полночь
	rangeEnd := dayEnd
	if endUTC.After(rangeEnd) {
		rangeEnd = endUTC
	}

	var result *domain.Booking
	var resultAssignments []*domain.BookingAssignment

	// 10. Пред-проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 10.1. Существующие назначения с блокировкой конкурирующих строк
		assignments, err := uc.bookingRepo.GetAssignmentIntervalsForRange(txCtx, req.LocationID, dayStart, rangeEnd)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get assignment intervals: %v", err)
			return fmt.Errorf("%w: failed to get assignment intervals: %v", ErrInternal, err)
		}

		// 10.2. Размещаем цепочку строго с запрошенного времени
		placed, err := planner.PlaceChainAt(
			plannerInput(req.LocationID, req.Date, config, items, services, staff, capabilities, overrides, unavailabilities, assignments),
			startUTC,
		)
		if err != nil {
			if errors.Is(err, planner.ErrPinnedStaffBusy) {
				uc.logger.Warn("CreateBooking: staff conflict at %s", startUTC.Format(time.RFC3339))
				return ErrStaffConflict
			}
			uc.logger.Warn("CreateBooking: slot conflict at %s", startUTC.Format(time.RFC3339))
			return ErrSlotConflict
		}

		// 10.3. Интервал цепочки не должен пересекать ни одно активное
		// бронирование локации, даже обслуживаемое другими сотрудниками
		overlap, err := uc.bookingRepo.HasActiveBookingOverlap(txCtx, req.LocationID, startUTC, endUTC)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check booking overlap: %v", err)
			return fmt.Errorf("%w: failed to check booking overlap: %v", ErrInternal, err)
		}
		if overlap {
			uc.logger.Warn("CreateBooking: location booking overlap at %s", startUTC.Format(time.RFC3339))
			return ErrSlotConflict
		}

		// 10.4. Формируем бронирование со снимками параметров услуг
		booking, bookingAssignments := uc.buildBooking(req, config, serviceByID, placed, startUTC, endUTC)

		// 10.5. Сохраняем бронирование и назначения
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return translateRepoError(err, "create booking")
		}

		if err := uc.bookingRepo.CreateAssignments(txCtx, bookingAssignments); err != nil {
			return translateRepoError(err, "create assignments")
		}

		result = created
		resultAssignments = bookingAssignments
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrStaffConflict) {
			return nil, err
		}
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return uc.buildResponse(result, resultAssignments, tz), nil
}

// buildBooking собирает доменное бронирование и назначения из размещённой цепочки
func (uc *UseCase) buildBooking(
	req *Request,
	config *domain.LocationConfig,
	serviceByID map[uuid.UUID]*domain.LocationService,
	placed []planner.PlacedAssignment,
	startUTC, endUTC time.Time,
) (*domain.Booking, []*domain.BookingAssignment) {
	tz := config.TimeZone

	endDate := timeutil.UTCToLocalDate(endUTC, tz)
	endMinutes := localMinutes(timeutil.UTCToLocalHM(endUTC, tz))
	if endDate != req.Date {
		// Переход через локальную полночь: минуты конца считаем от начала суток даты
		endMinutes += 1440
	}

	var totalAmount int64
	currency := ""
	for i := range placed {
		service := serviceByID[placed[i].ServiceID]
		totalAmount += service.PriceAmount
		currency = service.PriceCurrency
	}

	booking := &domain.Booking{
		ID:         uuid.New(),
		CustomerID: req.CustomerID,
		LocationID: req.LocationID,

		StartTime: startUTC,
		EndTime:   endUTC,

		LocalStartDate:    req.Date,
		LocalEndDate:      endDate,
		LocalStartMinutes: localMinutes(req.StartTime),
		LocalEndMinutes:   endMinutes,

		Status: domain.StatusConfirmed,

		TotalAmount: totalAmount,
		Currency:    currency,
		Notes:       req.Notes,
	}

	assignments := make([]*domain.BookingAssignment, 0, len(placed))
	for i := range placed {
		service := serviceByID[placed[i].ServiceID]

		aStartDate := timeutil.UTCToLocalDate(placed[i].Start, tz)
		aStartMinutes := localMinutes(timeutil.UTCToLocalHM(placed[i].Start, tz))
		aEndMinutes := localMinutes(timeutil.UTCToLocalHM(placed[i].End, tz))
		if timeutil.UTCToLocalDate(placed[i].End, tz) != aStartDate {
			aEndMinutes += 1440
		}

		assignments = append(assignments, &domain.BookingAssignment{
			ID:        uuid.New(),
			BookingID: booking.ID,
			ServiceID: placed[i].ServiceID,
			StaffID:   placed[i].StaffID,

			StartTime: placed[i].Start,
			EndTime:   placed[i].End,

			LocalStartDate:    aStartDate,
			LocalStartMinutes: aStartMinutes,
			LocalEndMinutes:   aEndMinutes,

			PriceAtBookingAmount:     service.PriceAmount,
			PriceAtBookingCurrency:   service.PriceCurrency,
			DurationAtBookingMinutes: service.DurationMinutes,
		})
	}

	return booking, assignments
}

// buildResponse конвертирует созданное бронирование в ответ usecase
func (uc *UseCase) buildResponse(booking *domain.Booking, assignments []*domain.BookingAssignment, tz string) *Response {
	respAssignments := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		respAssignments = append(respAssignments, AssignmentResponse{
			ID:         a.ID,
			ServiceID:  a.ServiceID,
			StaffID:    a.StaffID,
			StartLocal: timeutil.UTCToLocalHM(a.StartTime, tz),
			EndLocal:   timeutil.UTCToLocalHM(a.EndTime, tz),
			StartUTC:   a.StartTime,
			EndUTC:     a.EndTime,

			PriceAmount:     a.PriceAtBookingAmount,
			PriceCurrency:   a.PriceAtBookingCurrency,
			DurationMinutes: a.DurationAtBookingMinutes,
		})
	}

	return &Response{
		ID:         booking.ID,
		CustomerID: booking.CustomerID,
		LocationID: booking.LocationID,

		Date:       booking.LocalStartDate,
		StartLocal: timeutil.UTCToLocalHM(booking.StartTime, tz),
		EndLocal:   timeutil.UTCToLocalHM(booking.EndTime, tz),
		StartUTC:   booking.StartTime,
		EndUTC:     booking.EndTime,
		TimeZone:   tz,

		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		Currency:    booking.Currency,
		Notes:       booking.Notes,

		Assignments: respAssignments,

		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}
}

// localMinutes возвращает минуты с начала суток; значение уже прошло валидацию формата
func localMinutes(t types.TimeString) int {
	m, _ := t.Minutes()
	return m
}

// stripStaffPins возвращает копию цепочки без закреплений сотрудников
func stripStaffPins(items []ServiceItem) []ServiceItem {
	stripped := make([]ServiceItem, len(items))
	copy(stripped, items)
	for i := range stripped {
		stripped[i].StaffID = nil
	}
	return stripped
}

// plannerInput собирает снимок данных для размещения цепочки
func plannerInput(
	locationID uuid.UUID,
	dateISO string,
	config *domain.LocationConfig,
	items []ServiceItem,
	services []*domain.LocationService,
	staff []*domain.Staff,
	capabilities []*domain.StaffCapability,
	overrides []*domain.ScheduleOverride,
	unavailabilities []*domain.Unavailability,
	assignments []*domain.AssignmentInterval,
) planner.Input {
	ordered := make([]ServiceItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	requests := make([]domain.ServiceRequest, len(ordered))
	for i, item := range ordered {
		requests[i] = domain.ServiceRequest{
			ServiceID: item.ServiceID,
			StaffID:   item.StaffID,
			Order:     item.Order,
		}
	}

	in := planner.Input{
		DateISO:  dateISO,
		Location: *config,
		Requests: requests,
	}
	in.Location.ID = locationID

	in.Services = make([]domain.LocationService, len(services))
	for i, s := range services {
		in.Services[i] = *s
	}
	in.Staff = make([]domain.Staff, len(staff))
	for i, s := range staff {
		in.Staff[i] = *s
	}
	in.Capabilities = make([]domain.StaffCapability, len(capabilities))
	for i, c := range capabilities {
		in.Capabilities[i] = *c
	}
	in.Overrides = make([]domain.ScheduleOverride, len(overrides))
	for i, o := range overrides {
		in.Overrides[i] = *o
	}
	in.Unavailabilities = make([]domain.Unavailability, len(unavailabilities))
	for i, u := range unavailabilities {
		in.Unavailabilities[i] = *u
	}
	in.Assignments = make([]domain.AssignmentInterval, len(assignments))
	for i, a := range assignments {
		in.Assignments[i] = *a
	}

	return in
}

// translateRepoError переводит ошибки слоя хранения в доменные ошибки usecase
func translateRepoError(err error, op string) error {
	switch {
	case errors.Is(err, bookingRepo.ErrAssignmentOverlap):
		return ErrStaffConflict
	case errors.Is(err, bookingRepo.ErrBookingOverlap):
		return ErrSlotConflict
	default:
		return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
	}
}
