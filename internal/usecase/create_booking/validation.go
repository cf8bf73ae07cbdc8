package create_booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/timeutil"
	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	if req.LocationID == uuid.Nil {
		return fmt.Errorf("%w: locationId is required", ErrInvalidInput)
	}

	if !timeutil.ValidDateISO(req.Date) {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	// "24:00" валидно как конец интервала, но не как начало бронирования
	if startMinutes >= types.MinutesPerDay {
		return fmt.Errorf("%w: startTime must be before end of day", ErrInvalidInput)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.Services) > domain.MaxServicesPerChain {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerChain)
	}
	for i := range req.Services {
		if req.Services[i].ServiceID == uuid.Nil {
			return fmt.Errorf("%w: serviceId is required for every chain item", ErrInvalidInput)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSlotAlignment проверяет, что время начала лежит на сетке слотов
// локации (сетка начинается от локальной полуночи)
func validateSlotAlignment(startTime types.TimeString, granularityMinutes int) error {
	if granularityMinutes <= 0 {
		return fmt.Errorf("%w: location has invalid slot granularity", ErrInternal)
	}
	minutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if minutes%granularityMinutes != 0 {
		return fmt.Errorf("%w: startTime must be aligned to %d-minute grid", ErrInvalidTimeSlot, granularityMinutes)
	}
	return nil
}

// validateServices проверяет, что каждая запрошенная услуга существует,
// активна, имеет положительную длительность и единую валюту
func validateServices(requested []ServiceItem, found []*domain.LocationService) (map[uuid.UUID]*domain.LocationService, error) {
	byID := make(map[uuid.UUID]*domain.LocationService, len(found))
	for _, service := range found {
		byID[service.ID] = service
	}

	var currency string
	for i := range requested {
		service, ok := byID[requested[i].ServiceID]
		if !ok {
			return nil, fmt.Errorf("%w: service %s", ErrServiceNotFound, requested[i].ServiceID)
		}
		if !service.IsActive {
			return nil, fmt.Errorf("%w: service %s is inactive", ErrServiceNotFound, service.ID)
		}
		if service.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: service %s has non-positive duration", ErrInvalidInput, service.ID)
		}
		if currency == "" {
			currency = service.PriceCurrency
		} else if service.PriceCurrency != currency {
			return nil, fmt.Errorf("%w: services have mixed currencies", ErrInvalidInput)
		}
	}

	return byID, nil
}

// validatePinnedStaff проверяет, что каждый закреплённый сотрудник работает в локации
func validatePinnedStaff(requested []ServiceItem, staff []*domain.Staff) error {
	known := make(map[uuid.UUID]struct{}, len(staff))
	for _, member := range staff {
		known[member.ID] = struct{}{}
	}

	for i := range requested {
		if requested[i].StaffID == nil {
			continue
		}
		if _, ok := known[*requested[i].StaffID]; !ok {
			return fmt.Errorf("%w: staff %s", ErrStaffNotFound, *requested[i].StaffID)
		}
	}

	return nil
}
