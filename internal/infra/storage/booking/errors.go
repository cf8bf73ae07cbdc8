package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrBookingOverlap возвращается, когда запись нарушает EXCLUDE-ограничение
	// на пересечение бронирований (последняя линия защиты после пред-проверки)
	ErrBookingOverlap = errors.New("booking.repository: overlapping booking")

	// ErrAssignmentOverlap возвращается, когда назначение пересекается с другим
	// назначением того же сотрудника на уровне ограничений БД
	ErrAssignmentOverlap = errors.New("booking.repository: overlapping staff assignment")

	// ErrConstraintViolation возвращается при нарушении CHECK-ограничений таблицы
	ErrConstraintViolation = errors.New("booking.repository: constraint violation")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("booking.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
