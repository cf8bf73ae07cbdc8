package compute_timeslots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	locationRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/location"
	"github.com/m04kA/SMC-TimeslotService/internal/planner"
	"github.com/m04kA/SMC-TimeslotService/pkg/timeutil"
)

// UseCase use case для вычисления доступных слотов цепочки услуг
type UseCase struct {
	locationRepo LocationRepository
	staffRepo    StaffRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	locationRepo LocationRepository,
	staffRepo StaffRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		locationRepo: locationRepo,
		staffRepo:    staffRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case вычисления доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ComputeTimeslots: location=%s, date=%s, services=%d",
		req.LocationID, req.Date, len(req.Services))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ComputeTimeslots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем конфигурацию локации
	config, err := uc.locationRepo.GetConfig(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("ComputeTimeslots: location %s not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("ComputeTimeslots: failed to get location config: %v", err)
		return nil, fmt.Errorf("%w: failed to get location config: %v", ErrInternal, err)
	}

	// 4. Закрытия локации: на закрытую дату слотов нет
	closures, err := uc.locationRepo.GetClosuresForDate(ctx, req.LocationID, req.Date)
	if err != nil {
		uc.logger.Error("ComputeTimeslots: failed to get closures: %v", err)
		return nil, fmt.Errorf("%w: failed to get closures: %v", ErrInternal, err)
	}
	if len(closures) > 0 {
		uc.logger.Info("ComputeTimeslots: location %s is closed on %s", req.LocationID, req.Date)
		return emptyResponse(req, config), nil
	}

	// 5. Проверяем запрошенные услуги
	serviceIDs := make([]uuid.UUID, 0, len(req.Services))
	for i := range req.Services {
		serviceIDs = append(serviceIDs, req.Services[i].ServiceID)
	}

	services, err := uc.locationRepo.GetServicesByIDs(ctx, req.LocationID, serviceIDs)
	if err != nil {
		uc.logger.Error("ComputeTimeslots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if err := validateServices(req.Services, services); err != nil {
		uc.logger.Warn("ComputeTimeslots: service validation failed: %v", err)
		return nil, err
	}

	// 6. Выбор сотрудника клиентом может быть запрещён конфигурацией:
	// в этом случае закрепления молча снимаются
	items := req.Services
	if !config.AllowCustomerSelectStaff {
		items = stripStaffPins(items)
	}

	// 7. Получаем сотрудников и их расписания
	staff, err := uc.staffRepo.GetByLocation(ctx, req.LocationID)
	if err != nil {
		uc.logger.Error("ComputeTimeslots: failed to get staff: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if err := validatePinnedStaff(items, staff); err != nil {
		uc.logger.Warn("ComputeTimeslots: staff validation failed: %v", err)
		return nil, err
	}

	staffIDs := make([]uuid.UUID, 0, len(staff))
	for _, member := range staff {
		staffIDs = append(staffIDs, member.ID)
	}

	overrides, err := uc.staffRepo.GetOverridesForDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("ComputeTimeslots: failed to get schedule overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule overrides: %v", ErrInternal, err)
	}

	unavailabilities, err := uc.staffRepo.GetUnavailabilitiesForDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("ComputeTimeslots: failed to get unavailabilities: %v", err)
		return nil, fmt.Errorf("%w: failed to get unavailabilities: %v", ErrInternal, err)
	}

	capabilities, err := uc.staffRepo.GetCapabilitiesByLocation(ctx, req.LocationID)
	if err != nil {
		uc.logger.Error("ComputeTimeslots: failed to get capabilities: %v", err)
		return nil, fmt.Errorf("%w: failed to get capabilities: %v", ErrInternal, err)
	}

	// 8. Существующие назначения, пересекающие сутки даты
	dayStart, dayEnd := timeutil.DayBoundsUTC(req.Date, config.TimeZone)
	assignments := make([]*domain.AssignmentInterval, 0)
	if !dayStart.IsZero() && dayEnd.After(dayStart) {
		assignments, err = uc.bookingRepo.GetAssignmentIntervalsForRange(ctx, req.LocationID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("ComputeTimeslots: failed to get assignment intervals: %v", err)
			return nil, fmt.Errorf("%w: failed to get assignment intervals: %v", ErrInternal, err)
		}
	}

	// 9. Запускаем планировщик на собранном снимке данных
	timeslots := planner.Compute(plannerInput(req.LocationID, req.Date, config, items, services, staff, capabilities, overrides, unavailabilities, assignments, now))

	uc.logger.Info("ComputeTimeslots: location=%s, date=%s -> %d timeslots",
		req.LocationID, req.Date, len(timeslots))

	return &Response{
		LocationID: req.LocationID,
		Date:       req.Date,
		TimeZone:   config.TimeZone,
		Strategy:   string(config.Strategy),
		Timeslots:  timeslots,
	}, nil
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

// plannerInput собирает снимок данных для планировщика.
// Цепочка услуг упорядочивается по полю Order.
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
	now time.Time,
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
		Now:      now,
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

// emptyResponse формирует пустой успешный ответ (закрытая дата)
func emptyResponse(req *Request, config *domain.LocationConfig) *Response {
	return &Response{
		LocationID: req.LocationID,
		Date:       req.Date,
		TimeZone:   config.TimeZone,
		Strategy:   string(config.Strategy),
		Timeslots:  []domain.Timeslot{},
	}
}
