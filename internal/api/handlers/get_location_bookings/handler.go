package get_location_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TimeslotService/internal/api/handlers"
	"github.com/m04kA/SMC-TimeslotService/internal/service/bookings"
	"github.com/m04kA/SMC-TimeslotService/internal/service/bookings/models"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidQuery      = "некорректные параметры фильтра"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/bookings
// Поддерживает фильтры: start_date, end_date (RFC 3339), status, include_inactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(mux.Vars(r)["locationId"])
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	req, err := parseQuery(r, locationID)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid query: location_id=%s, error=%v", locationID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	resp, err := h.service.GetLocationBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/bookings - Invalid input: location_id=%s, error=%v", locationID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /locations/{id}/bookings - Failed to get bookings: location_id=%s, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func parseQuery(r *http.Request, locationID uuid.UUID) (*models.GetLocationBookingsRequest, error) {
	query := r.URL.Query()

	req := &models.GetLocationBookingsRequest{
		LocationID: locationID,
	}

	if raw := query.Get("start_date"); raw != "" {
		startDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("end_date"); raw != "" {
		endDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("include_inactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
