package locations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	locationRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/location"
	"github.com/m04kA/SMC-TimeslotService/internal/service/locations/models"
	"github.com/m04kA/SMC-TimeslotService/pkg/timeutil"
)

// Service сервис для работы с настройками локаций
type Service struct {
	locationRepo LocationRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса локаций
func NewService(locationRepo LocationRepository, logger Logger) *Service {
	return &Service{
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// GetConfig получает настройки планирования локации
func (s *Service) GetConfig(ctx context.Context, locationID uuid.UUID) (*models.ConfigResponse, error) {
	s.logger.Info("GetConfig: fetching config for location=%s", locationID)

	config, err := s.locationRepo.GetConfig(ctx, locationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("GetConfig: location %s not found", locationID)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("GetConfig: repository error for location=%s: %v", locationID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(config), nil
}

// UpdateConfig обновляет настройки планирования локации.
// Поля, отсутствующие в запросе, сохраняют текущие значения.
func (s *Service) UpdateConfig(ctx context.Context, locationID uuid.UUID, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpdateConfig: updating config for location=%s", locationID)

	config, err := s.locationRepo.GetConfig(ctx, locationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("UpdateConfig: location %s not found", locationID)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("UpdateConfig: repository error for location=%s: %v", locationID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	if err := applyUpdate(config, req); err != nil {
		s.logger.Warn("UpdateConfig: validation failed for location=%s: %v", locationID, err)
		return nil, err
	}

	updated, err := s.locationRepo.UpdateConfig(ctx, config)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("UpdateConfig: repository error for location=%s: %v", locationID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateConfig: successfully updated config for location=%s", locationID)
	return models.FromDomainConfig(updated), nil
}

// applyUpdate накладывает изменения запроса на конфигурацию с валидацией
func applyUpdate(config *domain.LocationConfig, req *models.UpdateConfigRequest) error {
	if req.TimeZone != nil {
		if !timeutil.IsValidTimeZone(*req.TimeZone) {
			return fmt.Errorf("%w: unknown IANA timezone %q", ErrInvalidInput, *req.TimeZone)
		}
		config.TimeZone = *req.TimeZone
	}

	if req.SlotGranularityMinutes != nil {
		v := *req.SlotGranularityMinutes
		if v < domain.MinSlotGranularityMinutes || v > domain.MaxSlotGranularityMinutes {
			return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
		}
		config.SlotGranularityMinutes = v
	}

	if req.CustomerBookingLeadMinutes != nil {
		v := *req.CustomerBookingLeadMinutes
		if v < domain.MinBookingLeadMinutes || v > domain.MaxBookingLeadMinutes {
			return fmt.Errorf("%w: customerBookingLeadMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinBookingLeadMinutes, domain.MaxBookingLeadMinutes)
		}
		config.CustomerBookingLeadMinutes = v
	}

	if req.CustomerBookingMaxMonthsAhead != nil {
		v := *req.CustomerBookingMaxMonthsAhead
		if v < domain.MinBookingMaxMonthsAhead || v > domain.MaxBookingMaxMonthsAhead {
			return fmt.Errorf("%w: customerBookingMaxMonthsAhead must be between %d and %d",
				ErrInvalidInput, domain.MinBookingMaxMonthsAhead, domain.MaxBookingMaxMonthsAhead)
		}
		config.CustomerBookingMaxMonthsAhead = v
	}

	if req.Strategy != nil {
		strategy := domain.GapStrategy(*req.Strategy)
		if !strategy.Valid() {
			return fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, *req.Strategy)
		}
		config.Strategy = strategy
	}

	if req.AllowCustomerSelectStaff != nil {
		config.AllowCustomerSelectStaff = *req.AllowCustomerSelectStaff
	}

	return nil
}
