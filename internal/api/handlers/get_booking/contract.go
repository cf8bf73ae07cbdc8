package get_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/service/bookings/models"
)

// BookingService интерфейс сервиса бронирований
type BookingService interface {
	GetByID(ctx context.Context, id uuid.UUID, customerID uuid.UUID) (*models.BookingResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
