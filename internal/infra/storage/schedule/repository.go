package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/RC-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий расписания: часы работы и исключения
// Строки с resource_id = NULL относятся ко всему бизнесу
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListBusinessHours получает часы работы
// weekday = nil - за все дни недели. День недели хранится нормализованным (0 = воскресенье)
func (r *Repository) ListBusinessHours(ctx context.Context, weekday *time.Weekday) ([]*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "weekday", "start_time", "end_time", "resource_id").
		From("business_hours").
		OrderBy("weekday ASC", "start_time ASC", "id ASC")

	if weekday != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"weekday": int(*weekday)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.BusinessHours, 0)
	for rows.Next() {
		var h domain.BusinessHours
		var day int
		if err := rows.Scan(&h.ID, &day, &h.StartTime, &h.EndTime, &h.ResourceID); err != nil {
			return nil, fmt.Errorf("%w: ListBusinessHours - scan row: %v", ErrScanRow, err)
		}
		h.Weekday = time.Weekday(day)
		hours = append(hours, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// CreateBusinessHours создает запись часов работы (день недели уже нормализован)
func (r *Repository) CreateBusinessHours(ctx context.Context, h *domain.BusinessHours) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("business_hours").
		Columns("weekday", "start_time", "end_time", "resource_id").
		Values(int(h.Weekday), h.StartTime, h.EndTime, h.ResourceID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&h.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateBusinessHours - execute insert: %v", ErrExecQuery, err)
	}

	return h, nil
}

// DeleteBusinessHours удаляет запись часов работы
func (r *Repository) DeleteBusinessHours(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "business_hours", id, ErrBusinessHoursNotFound)
}

// ListExceptions получает исключения из расписания; date = nil - все исключения
func (r *Repository) ListExceptions(ctx context.Context, date *time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "date", "resource_id", "is_closed", "start_time", "end_time", "reason").
		From("availability_exceptions").
		OrderBy("date ASC", "id ASC")

	if date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"date": date.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.AvailabilityException, 0)
	for rows.Next() {
		var e domain.AvailabilityException
		if err := rows.Scan(&e.ID, &e.Date, &e.ResourceID, &e.IsClosed, &e.StartTime, &e.EndTime, &e.Reason); err != nil {
			return nil, fmt.Errorf("%w: ListExceptions - scan row: %v", ErrScanRow, err)
		}
		exceptions = append(exceptions, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// CreateException создает исключение из расписания
func (r *Repository) CreateException(ctx context.Context, e *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_exceptions").
		Columns("date", "resource_id", "is_closed", "start_time", "end_time", "reason").
		Values(e.Date.Format(domain.DateFormat), e.ResourceID, e.IsClosed, e.StartTime, e.EndTime, e.Reason).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	return e, nil
}

// DeleteException удаляет исключение из расписания
func (r *Repository) DeleteException(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "availability_exceptions", id, ErrExceptionNotFound)
}

func (r *Repository) deleteByID(ctx context.Context, table string, id int64, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete %s - build delete query: %v", ErrBuildQuery, table, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete %s - execute delete: %v", ErrExecQuery, table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete %s - get rows affected: %v", ErrExecQuery, table, err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
