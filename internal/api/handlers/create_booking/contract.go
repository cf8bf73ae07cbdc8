package create_booking

import (
	"context"

	createBooking "github.com/m04kA/SMC-TimeslotService/internal/usecase/create_booking"
)

// CreateBookingUseCase интерфейс usecase для создания бронирования
type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
