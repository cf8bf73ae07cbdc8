package create_booking

import (
	"time"

	"github.com/google/uuid"

	createBooking "github.com/m04kA/SMC-TimeslotService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// ServiceItem элемент бронируемой цепочки услуг в теле запроса
type ServiceItem struct {
	ServiceID uuid.UUID  `json:"service_id"`
	StaffID   *uuid.UUID `json:"staff_id,omitempty"`
	Order     int        `json:"order"`
}

// CreateBookingRequest модель HTTP-запроса на создание бронирования
type CreateBookingRequest struct {
	Date      string           `json:"date"`
	StartTime types.TimeString `json:"start_time"`
	Services  []ServiceItem    `json:"services"`
	Notes     *string          `json:"notes,omitempty"`
}

// ToUseCaseRequest преобразует HTTP-запрос в модель usecase
func (r *CreateBookingRequest) ToUseCaseRequest(customerID, locationID uuid.UUID) *createBooking.Request {
	services := make([]createBooking.ServiceItem, 0, len(r.Services))
	for _, item := range r.Services {
		services = append(services, createBooking.ServiceItem{
			ServiceID: item.ServiceID,
			StaffID:   item.StaffID,
			Order:     item.Order,
		})
	}

	return &createBooking.Request{
		CustomerID: customerID,
		LocationID: locationID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		Services:   services,
		Notes:      r.Notes,
	}
}

// AssignmentResponse назначение сотрудника на услугу в ответе
type AssignmentResponse struct {
	ID              uuid.UUID        `json:"id"`
	ServiceID       uuid.UUID        `json:"service_id"`
	StaffID         uuid.UUID        `json:"staff_id"`
	StartLocal      types.TimeString `json:"start_local"`
	EndLocal        types.TimeString `json:"end_local"`
	StartUTC        time.Time        `json:"start_utc"`
	EndUTC          time.Time        `json:"end_utc"`
	PriceAmount     int64            `json:"price_amount"`
	PriceCurrency   string           `json:"price_currency"`
	DurationMinutes int              `json:"duration_minutes"`
}

// CreateBookingResponse модель HTTP-ответа с созданным бронированием
type CreateBookingResponse struct {
	ID          uuid.UUID            `json:"id"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	LocationID  uuid.UUID            `json:"location_id"`
	Date        string               `json:"date"`
	StartLocal  types.TimeString     `json:"start_local"`
	EndLocal    types.TimeString     `json:"end_local"`
	StartUTC    time.Time            `json:"start_utc"`
	EndUTC      time.Time            `json:"end_utc"`
	TimeZone    string               `json:"timezone"`
	Status      string               `json:"status"`
	TotalAmount int64                `json:"total_amount"`
	Currency    string               `json:"currency"`
	Notes       *string              `json:"notes,omitempty"`
	Assignments []AssignmentResponse `json:"assignments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// FromUseCaseResponse преобразует модель usecase в HTTP-ответ
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	assignments := make([]AssignmentResponse, 0, len(resp.Assignments))
	for _, a := range resp.Assignments {
		assignments = append(assignments, AssignmentResponse{
			ID:              a.ID,
			ServiceID:       a.ServiceID,
			StaffID:         a.StaffID,
			StartLocal:      a.StartLocal,
			EndLocal:        a.EndLocal,
			StartUTC:        a.StartUTC,
			EndUTC:          a.EndUTC,
			PriceAmount:     a.PriceAmount,
			PriceCurrency:   a.PriceCurrency,
			DurationMinutes: a.DurationMinutes,
		})
	}

	return &CreateBookingResponse{
		ID:          resp.ID,
		CustomerID:  resp.CustomerID,
		LocationID:  resp.LocationID,
		Date:        resp.Date,
		StartLocal:  resp.StartLocal,
		EndLocal:    resp.EndLocal,
		StartUTC:    resp.StartUTC,
		EndUTC:      resp.EndUTC,
		TimeZone:    resp.TimeZone,
		Status:      resp.Status,
		TotalAmount: resp.TotalAmount,
		Currency:    resp.Currency,
		Notes:       resp.Notes,
		Assignments: assignments,
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	}
}
