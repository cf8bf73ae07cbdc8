package compute_timeslots

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/timeutil"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.LocationID == uuid.Nil {
		return fmt.Errorf("%w: locationId is required", ErrInvalidInput)
	}

	if !timeutil.ValidDateISO(req.Date) {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.Services) > domain.MaxServicesPerChain {
		return fmt.Errorf("%w: at most %d services per request", ErrInvalidInput, domain.MaxServicesPerChain)
	}

	for i := range req.Services {
		if req.Services[i].ServiceID == uuid.Nil {
			return fmt.Errorf("%w: serviceId is required for every chain item", ErrInvalidInput)
		}
	}

	return nil
}

// validateServices проверяет, что каждая запрошенная услуга существует,
// активна и имеет положительную длительность
func validateServices(requested []ServiceItem, found []*domain.LocationService) error {
	byID := make(map[uuid.UUID]*domain.LocationService, len(found))
	for _, service := range found {
		byID[service.ID] = service
	}

	for i := range requested {
		service, ok := byID[requested[i].ServiceID]
		if !ok {
			return fmt.Errorf("%w: service %s", ErrServiceNotFound, requested[i].ServiceID)
		}
		if !service.IsActive {
			return fmt.Errorf("%w: service %s is inactive", ErrServiceNotFound, service.ID)
		}
		if service.DurationMinutes <= 0 {
			return fmt.Errorf("%w: service %s has non-positive duration", ErrInvalidInput, service.ID)
		}
	}

	return nil
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
