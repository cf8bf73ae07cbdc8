package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// ServiceItem один элемент бронируемой цепочки услуг
type ServiceItem struct {
	ServiceID uuid.UUID  // ID услуги
	StaffID   *uuid.UUID // Закреплённый сотрудник (nil - любой подходящий)
	Order     int        // Позиция услуги в цепочке
}

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID uuid.UUID        // ID клиента (из заголовка аутентификации)
	LocationID uuid.UUID        // ID локации
	Date       string           // Локальная дата "YYYY-MM-DD"
	StartTime  types.TimeString // Локальное время начала цепочки, например "10:00"
	Services   []ServiceItem    // Бронируемая цепочка услуг
	Notes      *string          // Дополнительные заметки (опционально)
}

// AssignmentResponse назначение сотрудника на услугу в составе бронирования
type AssignmentResponse struct {
	ID         uuid.UUID
	ServiceID  uuid.UUID
	StaffID    uuid.UUID
	StartLocal types.TimeString
	EndLocal   types.TimeString
	StartUTC   time.Time
	EndUTC     time.Time

	PriceAmount     int64
	PriceCurrency   string
	DurationMinutes int
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	LocationID uuid.UUID

	Date       string           // Локальная дата начала
	StartLocal types.TimeString // Локальное время начала
	EndLocal   types.TimeString // Локальное время конца
	StartUTC   time.Time
	EndUTC     time.Time
	TimeZone   string

	Status      string
	TotalAmount int64
	Currency    string
	Notes       *string

	Assignments []AssignmentResponse

	CreatedAt time.Time
	UpdatedAt time.Time
}
