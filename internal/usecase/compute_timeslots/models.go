package compute_timeslots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
)

// ServiceItem один элемент запрошенной цепочки услуг
type ServiceItem struct {
	ServiceID uuid.UUID  // ID услуги
	StaffID   *uuid.UUID // Закреплённый сотрудник (nil - любой подходящий)
	Order     int        // Позиция услуги в цепочке
}

// Request модель запроса на вычисление доступных слотов
type Request struct {
	LocationID uuid.UUID     // ID локации
	Date       string        // Локальная дата "YYYY-MM-DD"
	Services   []ServiceItem // Запрошенная цепочка услуг
}

// Response модель ответа со списком доступных слотов
type Response struct {
	LocationID uuid.UUID         // ID локации
	Date       string            // Дата, на которую запрашивались слоты
	TimeZone   string            // Таймзона локации
	Strategy   string            // Применённая стратегия управления зазорами
	Timeslots  []domain.Timeslot // Валидные стартовые слоты цепочки
}
