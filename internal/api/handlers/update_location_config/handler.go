package update_location_config

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TimeslotService/internal/api/handlers"
	"github.com/m04kA/SMC-TimeslotService/internal/service/locations"
	"github.com/m04kA/SMC-TimeslotService/internal/service/locations/models"
)

const (
	msgInvalidLocationID  = "некорректный ID локации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgLocationNotFound   = "локация не найдена"
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

// Handle PATCH /api/v1/locations/{locationId}/config
// Частичное обновление: nil-поля тела запроса остаются без изменений
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(mux.Vars(r)["locationId"])
	if err != nil {
		h.logger.Warn("PATCH /locations/{id}/config - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /locations/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	config, err := h.service.UpdateConfig(r.Context(), locationID, &req)
	if err != nil {
		switch {
		case errors.Is(err, locations.ErrLocationNotFound):
			h.logger.Warn("PATCH /locations/{id}/config - Location not found: location_id=%s", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, locations.ErrInvalidInput):
			h.logger.Warn("PATCH /locations/{id}/config - Invalid input: location_id=%s, error=%v", locationID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /locations/{id}/config - Failed to update config: location_id=%s, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /locations/{id}/config - Config updated: location_id=%s", locationID)

	handlers.RespondJSON(w, http.StatusOK, config)
}
