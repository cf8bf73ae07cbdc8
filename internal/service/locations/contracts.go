package locations

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
)

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetConfig(ctx context.Context, locationID uuid.UUID) (*domain.LocationConfig, error)
	UpdateConfig(ctx context.Context, config *domain.LocationConfig) (*domain.LocationConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
