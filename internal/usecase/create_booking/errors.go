package create_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("create_booking: location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда закреплённый сотрудник не работает в локации
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrLocationClosed возвращается, когда локация закрыта в указанную дату
	ErrLocationClosed = errors.New("create_booking: location is closed on this date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTooLateToBook возвращается при нарушении лид-тайма бронирования
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidTimeSlot возвращается, когда запрошенное время не лежит на сетке слотов
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotConflict возвращается, когда цепочку невозможно разместить с запрошенного времени
	ErrSlotConflict = errors.New("create_booking: requested slot is not available")

	// ErrStaffConflict возвращается, когда закреплённый сотрудник занят в запрошенный отрезок
	ErrStaffConflict = errors.New("create_booking: requested staff member is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
