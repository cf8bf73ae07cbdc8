package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusAwaitingPayment     BookingStatus = "AWAITING_PAYMENT"
	StatusConfirmed           BookingStatus = "CONFIRMED"
	StatusInProgress          BookingStatus = "IN_PROGRESS"
	StatusCompleted           BookingStatus = "COMPLETED"
	StatusCancelledByCustomer BookingStatus = "CANCELLED_BY_CUSTOMER"
	StatusCancelledByCompany  BookingStatus = "CANCELLED_BY_COMPANY"
	StatusNoShow              BookingStatus = "NO_SHOW"
)

// Booking represents a committed location-level booking spanning the whole
// service chain of one customer visit. Times are stored as UTC instants;
// local helper fields keep the original wall-clock view for reporting.
type Booking struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	LocationID uuid.UUID

	StartTime time.Time // UTC
	EndTime   time.Time // UTC

	LocalStartDate    string // "YYYY-MM-DD" в таймзоне локации
	LocalEndDate      string // может отличаться при переходе через полночь
	LocalStartMinutes int
	LocalEndMinutes   int // абсолютные минуты, > 1440 при переходе через полночь

	Status BookingStatus

	TotalAmount int64
	Currency    string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time span
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByCustomer &&
		b.Status != StatusCancelledByCompany &&
		b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusAwaitingPayment || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByCustomer || b.Status == StatusCancelledByCompany
}

// BookingAssignment is one staff-service span inside a booking. During
// availability computation its UTC span acts as a blocking interval; during
// booking creation it is the unit of staff-level conflict checking.
type BookingAssignment struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	ServiceID uuid.UUID
	StaffID   uuid.UUID

	StartTime time.Time // UTC
	EndTime   time.Time // UTC

	LocalStartDate    string
	LocalStartMinutes int
	LocalEndMinutes   int

	// Снимок параметров услуги на момент бронирования
	PriceAtBookingAmount     int64
	PriceAtBookingCurrency   string
	DurationAtBookingMinutes int
}

// AssignmentInterval is the minimal read-model of an existing committed
// staff-service span, consumed by the availability builder
type AssignmentInterval struct {
	StaffID   uuid.UUID
	StartTime time.Time // UTC
	EndTime   time.Time // UTC
}

// LocationBookingsFilter фильтр для получения бронирований локации
type LocationBookingsFilter struct {
	LocationID      uuid.UUID      // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show
}
