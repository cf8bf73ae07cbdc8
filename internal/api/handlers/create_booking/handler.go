package create_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TimeslotService/internal/api/handlers"
	"github.com/m04kA/SMC-TimeslotService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-TimeslotService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TimeslotService/pkg/metrics"
)

const (
	msgInvalidLocationID  = "некорректный ID локации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "не удалось определить пользователя"
	msgLocationNotFound   = "локация не найдена"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgLocationClosed     = "локация закрыта в указанную дату"
	msgDateTooFar         = "дата превышает горизонт бронирования"
	msgTooLateToBook      = "время начала нарушает минимальный интервал до брони"
	msgInvalidTimeSlot    = "время начала не лежит на сетке слотов"
	msgSlotConflict       = "запрошенный слот уже занят"
	msgStaffConflict      = "выбранный сотрудник занят в запрошенное время"
)

type Handler struct {
	useCase CreateBookingUseCase
	metrics *metrics.Metrics
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, m *metrics.Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: m,
		logger:  logger,
	}
}

// Handle POST /api/v1/locations/{locationId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	locationID, err := uuid.Parse(mux.Vars(r)["locationId"])
	if err != nil {
		h.logger.Warn("POST /locations/{id}/bookings - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /locations/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(customerID, locationID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /locations/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrLocationNotFound):
			h.logger.Warn("POST /locations/{id}/bookings - Location not found: location_id=%s", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /locations/{id}/bookings - Service not found: location_id=%s, error=%v", locationID, err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /locations/{id}/bookings - Staff not found: location_id=%s, error=%v", locationID, err)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrLocationClosed):
			h.logger.Warn("POST /locations/{id}/bookings - Location closed: location_id=%s, date=%s", locationID, req.Date)
			handlers.RespondBadRequest(w, msgLocationClosed)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /locations/{id}/bookings - Date too far in future: location_id=%s, date=%s", locationID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /locations/{id}/bookings - Too late to book: location_id=%s, date=%s, start=%s", locationID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /locations/{id}/bookings - Invalid time slot: location_id=%s, start=%s", locationID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrStaffConflict):
			h.metrics.BookingConflictsTotal.WithLabelValues("staff").Inc()
			h.logger.Warn("POST /locations/{id}/bookings - Staff conflict: location_id=%s, date=%s, start=%s", locationID, req.Date, req.StartTime)
			handlers.RespondConflict(w, handlers.CodeStaffConflict, msgStaffConflict)

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.metrics.BookingConflictsTotal.WithLabelValues("slot").Inc()
			h.logger.Warn("POST /locations/{id}/bookings - Slot conflict: location_id=%s, date=%s, start=%s", locationID, req.Date, req.StartTime)
			handlers.RespondConflict(w, handlers.CodeSlotConflict, msgSlotConflict)

		default:
			h.logger.Error("POST /locations/{id}/bookings - Failed to create booking: location_id=%s, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /locations/{id}/bookings - Booking created: booking_id=%s, customer_id=%s, location_id=%s",
		resp.ID, customerID, locationID)

	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
