package create_booking

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
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateAssignments(ctx context.Context, assignments []*domain.BookingAssignment) error
	GetAssignmentIntervalsForRange(ctx context.Context, locationID uuid.UUID, from, to time.Time) ([]*domain.AssignmentInterval, error)
	HasActiveBookingOverlap(ctx context.Context, locationID uuid.UUID, from, to time.Time) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
