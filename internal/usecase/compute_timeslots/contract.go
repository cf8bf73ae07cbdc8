package compute_timeslots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
)

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetConfig(ctx context.Context, locationID uuid.UUID) (*domain.LocationConfig, error)
	GetServicesByIDs(ctx context.Context, locationID uuid.UUID, serviceIDs []uuid.UUID) ([]*domain.LocationService, error)
	GetClosuresForDate(ctx context.Context, locationID uuid.UUID, dateISO string) ([]*domain.LocationClosure, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByLocation(ctx context.Context, locationID uuid.UUID) ([]*domain.Staff, error)
	GetOverridesForDate(ctx context.Context, staffIDs []uuid.UUID, dateISO string) ([]*domain.ScheduleOverride, error)
	GetUnavailabilitiesForDate(ctx context.Context, staffIDs []uuid.UUID, dateISO string) ([]*domain.Unavailability, error)
	GetCapabilitiesByLocation(ctx context.Context, locationID uuid.UUID) ([]*domain.StaffCapability, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetAssignmentIntervalsForRange(ctx context.Context, locationID uuid.UUID, from, to time.Time) ([]*domain.AssignmentInterval, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
