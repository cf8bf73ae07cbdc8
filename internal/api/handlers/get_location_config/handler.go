package get_location_config

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TimeslotService/internal/api/handlers"
	"github.com/m04kA/SMC-TimeslotService/internal/service/locations"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgLocationNotFound  = "локация не найдена"
)

type Handler struct {
	service LocationService
	logger  Logger
}

func NewHandler(service LocationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(mux.Vars(r)["locationId"])
	if err != nil {
		h.logger.Warn("GET /locations/{id}/config - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	config, err := h.service.GetConfig(r.Context(), locationID)
	if err != nil {
		switch {
		case errors.Is(err, locations.ErrLocationNotFound):
			h.logger.Warn("GET /locations/{id}/config - Location not found: location_id=%s", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		default:
			h.logger.Error("GET /locations/{id}/config - Failed to get config: location_id=%s, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, config)
}
