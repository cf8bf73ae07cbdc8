package get_customer_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TimeslotService/internal/api/handlers"
	"github.com/m04kA/SMC-TimeslotService/internal/api/middleware"
	"github.com/m04kA/SMC-TimeslotService/internal/service/bookings"
	"github.com/m04kA/SMC-TimeslotService/internal/service/bookings/models"
)

const (
	msgUnauthorized  = "не удалось определить пользователя"
	msgInvalidStatus = "некорректный статус бронирования"
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

// Handle GET /api/v1/customers/me/bookings?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req := &models.GetCustomerBookingsRequest{
		CustomerID: customerID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	resp, err := h.service.GetCustomerBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /customers/me/bookings - Invalid input: customer_id=%s, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /customers/me/bookings - Failed to get bookings: customer_id=%s, error=%v", customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
