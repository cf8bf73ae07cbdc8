package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CustomerID         uuid.UUID `json:"customerId"`
	CancellationReason string    `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID uuid.UUID `json:"customerId"`
	Status     *string   `json:"status,omitempty"`
}

// GetLocationBookingsRequest запрос на получение бронирований локации
type GetLocationBookingsRequest struct {
	LocationID      uuid.UUID  `json:"locationId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetLocationBookingsRequest) ToDomainFilter() (domain.LocationBookingsFilter, error) {
	filter := domain.LocationBookingsFilter{
		LocationID:      r.LocationID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AssignmentResponse назначение сотрудника на услугу в составе бронирования
type AssignmentResponse struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"serviceId"`
	StaffID   uuid.UUID `json:"staffId"`

	StartTime time.Time `json:"startTime"` // UTC
	EndTime   time.Time `json:"endTime"`   // UTC

	PriceAmount     int64  `json:"priceAmount"`
	PriceCurrency   string `json:"priceCurrency"`
	DurationMinutes int    `json:"durationMinutes"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	LocationID uuid.UUID `json:"locationId"`

	StartTime time.Time `json:"startTime"` // UTC
	EndTime   time.Time `json:"endTime"`   // UTC

	LocalStartDate    string `json:"localStartDate"` // "2026-03-15"
	LocalEndDate      string `json:"localEndDate"`
	LocalStartMinutes int    `json:"localStartMinutes"`
	LocalEndMinutes   int    `json:"localEndMinutes"`

	Status string `json:"status"`

	TotalAmount int64   `json:"totalAmount"`
	Currency    string  `json:"currency"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	Assignments []AssignmentResponse `json:"assignments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		LocationID: b.LocationID,

		StartTime: b.StartTime,
		EndTime:   b.EndTime,

		LocalStartDate:    b.LocalStartDate,
		LocalEndDate:      b.LocalEndDate,
		LocalStartMinutes: b.LocalStartMinutes,
		LocalEndMinutes:   b.LocalEndMinutes,

		Status: string(b.Status),

		TotalAmount: b.TotalAmount,
		Currency:    b.Currency,
		Notes:       b.Notes,

		CancellationReason: b.CancellationReason,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAssignments конвертирует назначения в DTO
func FromDomainAssignments(assignments []*domain.BookingAssignment) []AssignmentResponse {
	resp := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, AssignmentResponse{
			ID:        a.ID,
			ServiceID: a.ServiceID,
			StaffID:   a.StaffID,

			StartTime: a.StartTime,
			EndTime:   a.EndTime,

			PriceAmount:     a.PriceAtBookingAmount,
			PriceCurrency:   a.PriceAtBookingCurrency,
			DurationMinutes: a.DurationAtBookingMinutes,
		})
	}
	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusAwaitingPayment,
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByCustomer,
		domain.StatusCancelledByCompany,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
