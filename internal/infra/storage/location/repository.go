package location

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TimeslotService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с локациями, их услугами и закрытиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория локаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfig получает конфигурацию локации по ID
func (r *Repository) GetConfig(ctx context.Context, locationID uuid.UUID) (*domain.LocationConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"time_zone",
		"slot_granularity_minutes",
		"customer_booking_lead_minutes",
		"customer_booking_max_months_ahead",
		"gap_strategy",
		"allow_customer_select_staff",
		"created_at",
		"updated_at",
	).
		From("location_configs").
		Where(squirrel.Eq{"id": locationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - build select query: %v", ErrBuildQuery, err)
	}

	var config domain.LocationConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&config.Name,
		&config.TimeZone,
		&config.SlotGranularityMinutes,
		&config.CustomerBookingLeadMinutes,
		&config.CustomerBookingMaxMonthsAhead,
		&config.Strategy,
		&config.AllowCustomerSelectStaff,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - scan config: %v", ErrScanRow, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

// UpdateConfig обновляет настройки планирования локации
func (r *Repository) UpdateConfig(ctx context.Context, config *domain.LocationConfig) (*domain.LocationConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("location_configs").
		Set("time_zone", config.TimeZone).
		Set("slot_granularity_minutes", config.SlotGranularityMinutes).
		Set("customer_booking_lead_minutes", config.CustomerBookingLeadMinutes).
		Set("customer_booking_max_months_ahead", config.CustomerBookingMaxMonthsAhead).
		Set("gap_strategy", config.Strategy).
		Set("allow_customer_select_staff", config.AllowCustomerSelectStaff).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": config.ID}).
		Suffix("RETURNING name, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.Name,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig - execute update: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

// GetServicesByIDs получает услуги локации по списку ID
// Возвращает только найденные строки; проверка полноты набора остаётся за вызывающим
func (r *Repository) GetServicesByIDs(ctx context.Context, locationID uuid.UUID, serviceIDs []uuid.UUID) ([]*domain.LocationService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"location_id",
		"name",
		"duration_minutes",
		"price_amount",
		"price_currency",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("location_services").
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"id": serviceIDs}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.LocationService, 0, len(serviceIDs))

	for rows.Next() {
		var service domain.LocationService
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&service.ID,
			&service.LocationID,
			&service.Name,
			&service.DurationMinutes,
			&service.PriceAmount,
			&service.PriceCurrency,
			&service.IsActive,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan row: %v", ErrScanRow, err)
		}

		service.CreatedAt = createdAt.Time
		service.UpdatedAt = updatedAt.Time

		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetClosuresForDate получает закрытия локации, покрывающие указанную локальную дату
func (r *Repository) GetClosuresForDate(ctx context.Context, locationID uuid.UUID, dateISO string) ([]*domain.LocationClosure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Даты отдаются строками "YYYY-MM-DD", как их потребляет доменная модель
	query, args, err := psqlbuilder.Select(
		"id",
		"location_id",
		"to_char(start_date, 'YYYY-MM-DD')",
		"to_char(end_date, 'YYYY-MM-DD')",
		"reason",
	).
		From("location_closures").
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.LtOrEq{"start_date": dateISO}).
		Where(squirrel.GtOrEq{"end_date": dateISO}).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetClosuresForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetClosuresForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]*domain.LocationClosure, 0)

	for rows.Next() {
		var closure domain.LocationClosure

		err := rows.Scan(
			&closure.ID,
			&closure.LocationID,
			&closure.StartDate,
			&closure.EndDate,
			&closure.Reason,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetClosuresForDate - scan row: %v", ErrScanRow, err)
		}

		closures = append(closures, &closure)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetClosuresForDate - rows error: %v", ErrScanRow, err)
	}

	return closures, nil
}
