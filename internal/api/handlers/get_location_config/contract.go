package get_location_config

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/service/locations/models"
)

// LocationService интерфейс сервиса локаций
type LocationService interface {
	GetConfig(ctx context.Context, locationID uuid.UUID) (*models.ConfigResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
