package staff

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	"github.com/m04kA/SMC-TimeslotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TimeslotService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с сотрудниками, их расписаниями и навыками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByLocation получает всех сотрудников локации в порядке добавления.
// Порядок важен: планировщик перебирает кандидатов детерминированно.
func (r *Repository) GetByLocation(ctx context.Context, locationID uuid.UUID) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"location_id",
		"name",
		"schedule",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	members := make([]*domain.Staff, 0)

	for rows.Next() {
		var member domain.Staff
		var scheduleRaw []byte
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&member.ID,
			&member.LocationID,
			&member.Name,
			&scheduleRaw,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetByLocation - scan row: %v", ErrScanRow, err)
		}

		member.Schedule, err = unmarshalSchedule(scheduleRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByLocation - decode schedule: %v", ErrScanRow, err)
		}

		member.CreatedAt = createdAt.Time
		member.UpdatedAt = updatedAt.Time

		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByLocation - rows error: %v", ErrScanRow, err)
	}

	return members, nil
}

// GetOverridesForDate получает переопределения расписаний сотрудников,
// покрывающие указанную локальную дату. Порядок по времени создания: при
// пересечении диапазонов действует первое добавленное переопределение.
func (r *Repository) GetOverridesForDate(ctx context.Context, staffIDs []uuid.UUID, dateISO string) ([]*domain.ScheduleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(staffIDs) == 0 {
		return []*domain.ScheduleOverride{}, nil
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"to_char(start_date, 'YYYY-MM-DD')",
		"to_char(end_date, 'YYYY-MM-DD')",
		"schedule",
	).
		From("staff_schedule_overrides").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.LtOrEq{"start_date": dateISO}).
		Where(squirrel.GtOrEq{"end_date": dateISO}).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverridesForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverridesForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.ScheduleOverride, 0)

	for rows.Next() {
		var override domain.ScheduleOverride
		var scheduleRaw []byte

		err := rows.Scan(
			&override.ID,
			&override.StaffID,
			&override.StartDate,
			&override.EndDate,
			&scheduleRaw,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetOverridesForDate - scan row: %v", ErrScanRow, err)
		}

		if err := json.Unmarshal(scheduleRaw, &override.Schedule); err != nil {
			return nil, fmt.Errorf("%w: GetOverridesForDate - decode schedule: %v", ErrScanRow, err)
		}

		overrides = append(overrides, &override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverridesForDate - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// GetUnavailabilitiesForDate получает блокировки сотрудников, покрывающие
// указанную локальную дату
func (r *Repository) GetUnavailabilitiesForDate(ctx context.Context, staffIDs []uuid.UUID, dateISO string) ([]*domain.Unavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(staffIDs) == 0 {
		return []*domain.Unavailability{}, nil
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"to_char(start_date, 'YYYY-MM-DD')",
		"to_char(end_date, 'YYYY-MM-DD')",
		"to_char(start_time, 'HH24:MI')",
		"to_char(end_time, 'HH24:MI')",
		"reason",
	).
		From("staff_unavailabilities").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.LtOrEq{"start_date": dateISO}).
		Where(squirrel.GtOrEq{"end_date": dateISO}).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUnavailabilitiesForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUnavailabilitiesForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.Unavailability, 0)

	for rows.Next() {
		var block domain.Unavailability

		err := rows.Scan(
			&block.ID,
			&block.StaffID,
			&block.StartDate,
			&block.EndDate,
			&block.StartTime,
			&block.EndTime,
			&block.Reason,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetUnavailabilitiesForDate - scan row: %v", ErrScanRow, err)
		}

		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetUnavailabilitiesForDate - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// GetCapabilitiesByLocation получает все связки сотрудник-услуга локации
func (r *Repository) GetCapabilitiesByLocation(ctx context.Context, locationID uuid.UUID) ([]*domain.StaffCapability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"sc.staff_id",
		"sc.service_id",
	).
		From("staff_capabilities sc").
		Join("staff s ON s.id = sc.staff_id").
		Where(squirrel.Eq{"s.location_id": locationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCapabilitiesByLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCapabilitiesByLocation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	capabilities := make([]*domain.StaffCapability, 0)

	for rows.Next() {
		var capability domain.StaffCapability

		if err := rows.Scan(&capability.StaffID, &capability.ServiceID); err != nil {
			return nil, fmt.Errorf("%w: GetCapabilitiesByLocation - scan row: %v", ErrScanRow, err)
		}

		capabilities = append(capabilities, &capability)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCapabilitiesByLocation - rows error: %v", ErrScanRow, err)
	}

	return capabilities, nil
}

// unmarshalSchedule разбирает JSONB-колонку расписания.
// NULL в колонке означает отсутствие расписания (nil указатель в домене).
func unmarshalSchedule(raw []byte) (*domain.WeekSchedule, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var schedule domain.WeekSchedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}
