package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TimeslotService/pkg/psqlbuilder"
)

// Коды ошибок PostgreSQL, на которые опирается маппинг конфликтов
const (
	pgExclusionViolation = "23P01"
	pgCheckViolation     = "23514"
)

const assignmentOverlapConstraint = "booking_assignments_no_staff_overlap"

// Repository репозиторий для работы с бронированиями и назначениями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри сериализуемой транзакции вместе с CreateAssignments:
// пред-проверка конфликтов выполняется на уровне usecase, а EXCLUDE-ограничения
// БД остаются последней линией защиты от гонок между параллельными запросами.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"customer_id",
			"location_id",
			"start_time",
			"end_time",
			"local_start_date",
			"local_end_date",
			"local_start_minutes",
			"local_end_minutes",
			"status",
			"total_amount",
			"currency",
			"notes",
		).
		Values(
			booking.ID,
			booking.CustomerID,
			booking.LocationID,
			booking.StartTime,
			booking.EndTime,
			booking.LocalStartDate,
			booking.LocalEndDate,
			booking.LocalStartMinutes,
			booking.LocalEndMinutes,
			booking.Status,
			booking.TotalAmount,
			booking.Currency,
			booking.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if mapped := translateConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// CreateAssignments создает назначения сотрудников на услуги бронирования
func (r *Repository) CreateAssignments(ctx context.Context, assignments []*domain.BookingAssignment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("booking_assignments").
		Columns(
			"id",
			"booking_id",
			"service_id",
			"staff_id",
			"start_time",
			"end_time",
			"local_start_date",
			"local_start_minutes",
			"local_end_minutes",
			"price_at_booking_amount",
			"price_at_booking_currency",
			"duration_at_booking_minutes",
		)

	for _, assignment := range assignments {
		insertBuilder = insertBuilder.Values(
			assignment.ID,
			assignment.BookingID,
			assignment.ServiceID,
			assignment.StaffID,
			assignment.StartTime,
			assignment.EndTime,
			assignment.LocalStartDate,
			assignment.LocalStartMinutes,
			assignment.LocalEndMinutes,
			assignment.PriceAtBookingAmount,
			assignment.PriceAtBookingCurrency,
			assignment.DurationAtBookingMinutes,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateAssignments - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if mapped := translateConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: CreateAssignments - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns()...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetAssignmentsByBookingID получает назначения бронирования в порядке начала
func (r *Repository) GetAssignmentsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*domain.BookingAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"service_id",
		"staff_id",
		"start_time",
		"end_time",
		"to_char(local_start_date, 'YYYY-MM-DD')",
		"local_start_minutes",
		"local_end_minutes",
		"price_at_booking_amount",
		"price_at_booking_currency",
		"duration_at_booking_minutes",
	).
		From("booking_assignments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignmentsByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignmentsByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	assignments := make([]*domain.BookingAssignment, 0)

	for rows.Next() {
		var assignment domain.BookingAssignment

		err := rows.Scan(
			&assignment.ID,
			&assignment.BookingID,
			&assignment.ServiceID,
			&assignment.StaffID,
			&assignment.StartTime,
			&assignment.EndTime,
			&assignment.LocalStartDate,
			&assignment.LocalStartMinutes,
			&assignment.LocalEndMinutes,
			&assignment.PriceAtBookingAmount,
			&assignment.PriceAtBookingCurrency,
			&assignment.DurationAtBookingMinutes,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetAssignmentsByBookingID - scan row: %v", ErrScanRow, err)
		}

		assignments = append(assignments, &assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAssignmentsByBookingID - rows error: %v", ErrScanRow, err)
	}

	return assignments, nil
}

// GetAssignmentIntervalsForRange получает интервалы существующих назначений
// активных бронирований локации, пересекающие диапазон [from, to).
// Это read-model для построителя доступности и пред-проверки конфликтов.
func (r *Repository) GetAssignmentIntervalsForRange(ctx context.Context, locationID uuid.UUID, from, to time.Time) ([]*domain.AssignmentInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(
		"ba.staff_id",
		"ba.start_time",
		"ba.end_time",
	).
		From("booking_assignments ba").
		Join("bookings b ON b.id = ba.booking_id").
		Where(squirrel.Eq{"b.location_id": locationID}).
		Where(squirrel.NotEq{"b.status": inactiveStatuses}).
		Where(squirrel.Lt{"ba.start_time": to}).
		Where(squirrel.Gt{"ba.end_time": from}).
		OrderBy("ba.start_time ASC")

	// Внутри транзакции создания бронирования блокируем конкурирующие строки
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE OF ba")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignmentIntervalsForRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignmentIntervalsForRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]*domain.AssignmentInterval, 0)

	for rows.Next() {
		var interval domain.AssignmentInterval

		if err := rows.Scan(&interval.StaffID, &interval.StartTime, &interval.EndTime); err != nil {
			return nil, fmt.Errorf("%w: GetAssignmentIntervalsForRange - scan row: %v", ErrScanRow, err)
		}

		intervals = append(intervals, &interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAssignmentIntervalsForRange - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

// HasActiveBookingOverlap проверяет, пересекает ли интервал [from, to) хотя бы
// одно активное бронирование локации, независимо от назначенных сотрудников
func (r *Repository) HasActiveBookingOverlap(ctx context.Context, locationID uuid.UUID, from, to time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.NotEq{"status": inactiveStatuses}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		Limit(1)

	// Внутри транзакции создания бронирования блокируем конкурирующую строку
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveBookingOverlap - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: HasActiveBookingOverlap - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns()...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByLocationWithFilter получает бронирования локации с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных записей
func (r *Repository) GetByLocationWithFilter(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns()...).
		From("bookings").
		Where(squirrel.Eq{"location_id": filter.LocationID})

	// Фильтрация по периоду (пересечение с [StartDate, EndDate))
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatuses := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatuses})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocationWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocationWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, status domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет бронирование вместе с назначениями (ON DELETE CASCADE).
// Используется как компенсация при частично неудавшемся создании
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// bookingColumns возвращает полный набор колонок таблицы bookings
func bookingColumns() []string {
	return []string{
		"id",
		"customer_id",
		"location_id",
		"start_time",
		"end_time",
		"to_char(local_start_date, 'YYYY-MM-DD')",
		"to_char(local_end_date, 'YYYY-MM-DD')",
		"local_start_minutes",
		"local_end_minutes",
		"status",
		"total_amount",
		"currency",
		"notes",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку bookings
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.LocationID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.LocalStartDate,
		&booking.LocalEndDate,
		&booking.LocalStartMinutes,
		&booking.LocalEndMinutes,
		&booking.Status,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// translateConstraintError переводит ошибки ограничений PostgreSQL в
// доменные ошибки репозитория. Возвращает nil для прочих ошибок.
func translateConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch string(pqErr.Code) {
	case pgExclusionViolation:
		if pqErr.Constraint == assignmentOverlapConstraint {
			return fmt.Errorf("%w: %s", ErrAssignmentOverlap, pqErr.Constraint)
		}
		return fmt.Errorf("%w: %s", ErrBookingOverlap, pqErr.Constraint)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pqErr.Constraint)
	}

	return nil
}
