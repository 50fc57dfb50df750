package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/RC-BookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"b.id",
	"b.user_id",
	"b.service_id",
	"b.resource_id",
	"b.start_at",
	"b.end_at",
	"b.duration_minutes",
	"b.total_price",
	"b.status",
	"b.notes",
	"b.vehicle_type",
	"b.license_plate",
	"b.canceled_by",
	"b.canceled_at",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"service_id",
			"resource_id",
			"start_at",
			"end_at",
			"duration_minutes",
			"total_price",
			"status",
			"notes",
			"vehicle_type",
			"license_plate",
		).
		Values(
			booking.UserID,
			booking.ServiceID,
			booking.ResourceID,
			booking.StartAt,
			booking.EndAt,
			booking.DurationMinutes,
			booking.TotalPrice,
			booking.Status,
			booking.Notes,
			booking.VehicleType,
			booking.LicensePlate,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListByUser получает бронирования пользователя с названием услуги, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(append(bookingColumns, "s.title")...).
		From("bookings b").
		LeftJoin("services s ON s.id = b.service_id").
		Where(squirrel.Eq{"b.user_id": userID}).
		OrderBy("b.start_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var booking domain.Booking
		dest := append(bookingDest(&booking), &booking.ServiceTitle)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// ListBlockingOverlapping получает бронирования в статусах pending/confirmed,
// пересекающиеся с диапазоном (полуоткрытые интервалы)
//
// ResourceID = nil - по всем ресурсам.
// ExcludeID - бронирование, которое переносится (не конфликтует само с собой).
// Внутри транзакции найденные строки блокируются (FOR UPDATE).
func (r *Repository) ListBlockingOverlapping(ctx context.Context, q domain.OverlapQuery) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	blocking := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		blocking[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.status": blocking}).
		Where(squirrel.Lt{"b.start_at": q.Range.End}).
		Where(squirrel.Gt{"b.end_at": q.Range.Start})

	if q.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.resource_id": *q.ResourceID})
	}
	if q.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.id": *q.ExcludeID})
	}

	selectBuilder = selectBuilder.OrderBy("b.start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockingOverlapping - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockingOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update сохраняет изменяемые поля бронирования (перенос, статус, заметки)
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("service_id", booking.ServiceID).
		Set("resource_id", booking.ResourceID).
		Set("start_at", booking.StartAt).
		Set("end_at", booking.EndAt).
		Set("duration_minutes", booking.DurationMinutes).
		Set("total_price", booking.TotalPrice).
		Set("status", booking.Status).
		Set("notes", booking.Notes).
		Set("vehicle_type", booking.VehicleType).
		Set("license_plate", booking.LicensePlate).
		Set("canceled_by", booking.CanceledBy).
		Set("canceled_at", booking.CanceledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	booking.UpdatedAt = updatedAt.Time
	return nil
}

// Delete удаляет бронирование (физическое удаление)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// bookingDest адреса полей в порядке bookingColumns
func bookingDest(b *domain.Booking) []interface{} {
	return []interface{}{
		&b.ID,
		&b.UserID,
		&b.ServiceID,
		&b.ResourceID,
		&b.StartAt,
		&b.EndAt,
		&b.DurationMinutes,
		&b.TotalPrice,
		&b.Status,
		&b.Notes,
		&b.VehicleType,
		&b.LicensePlate,
		&b.CanceledBy,
		&b.CanceledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	if err := row.Scan(bookingDest(&booking)...); err != nil {
		return nil, err
	}
	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(bookingDest(&booking)...); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
