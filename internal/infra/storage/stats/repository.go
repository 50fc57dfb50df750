package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// Repository аналитические запросы для админки (read-side, через sqlx)
type Repository struct {
	db       *sqlx.DB
	timezone string
}

// NewRepository создает репозиторий статистики
// timezone используется для группировки выручки по месяцам
func NewRepository(db *sqlx.DB, timezone string) *Repository {
	return &Repository{db: db, timezone: timezone}
}

// Totals считает общее количество, выручку (confirmed + completed),
// предстоящие, завершенные и отмененные бронирования на момент now
func (r *Repository) Totals(ctx context.Context, now time.Time) (*Totals, error) {
	const query = `
		SELECT
			COUNT(*) AS total_bookings,
			COALESCE(SUM(total_price) FILTER (WHERE status IN ('confirmed', 'completed')), 0) AS total_revenue,
			COUNT(*) FILTER (WHERE status <> 'cancelled' AND start_at > $1) AS upcoming,
			COUNT(*) FILTER (WHERE status <> 'cancelled' AND end_at <= $1) AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM bookings`

	var totals Totals
	if err := r.db.GetContext(ctx, &totals, query, now); err != nil {
		return nil, fmt.Errorf("%w: Totals: %v", ErrQuery, err)
	}
	return &totals, nil
}

// StatusDistribution количество бронирований по статусам
func (r *Repository) StatusDistribution(ctx context.Context) ([]domain.StatusCount, error) {
	const query = `
		SELECT status, COUNT(*) AS cnt
		FROM bookings
		GROUP BY status
		ORDER BY status`

	var rows []statusRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: StatusDistribution: %v", ErrQuery, err)
	}

	result := make([]domain.StatusCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.StatusCount{Status: row.Status, Count: row.Count})
	}
	return result, nil
}

// ServiceDistribution количество бронирований по услугам ("Unknown" для удаленных услуг)
func (r *Repository) ServiceDistribution(ctx context.Context) ([]domain.ServiceCount, error) {
	const query = `
		SELECT COALESCE(s.title, 'Unknown') AS title, COUNT(*) AS cnt
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
		GROUP BY COALESCE(s.title, 'Unknown')
		ORDER BY cnt DESC, title ASC`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: ServiceDistribution: %v", ErrQuery, err)
	}

	result := make([]domain.ServiceCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.ServiceCount{Title: row.Title, Count: row.Count})
	}
	return result, nil
}

// RevenueByMonth выручка (confirmed + completed) по месяцам начала бронирования, начиная с since
// Ключ - "YYYY-MM" в часовом поясе бизнеса. Месяцы без выручки отсутствуют
func (r *Repository) RevenueByMonth(ctx context.Context, since time.Time) (map[string]float64, error) {
	const query = `
		SELECT to_char(start_at AT TIME ZONE $1, 'YYYY-MM') AS ym, COALESCE(SUM(total_price), 0) AS revenue
		FROM bookings
		WHERE status IN ('confirmed', 'completed') AND start_at >= $2
		GROUP BY ym`

	var rows []monthRow
	if err := r.db.SelectContext(ctx, &rows, query, r.timezone, since); err != nil {
		return nil, fmt.Errorf("%w: RevenueByMonth: %v", ErrQuery, err)
	}

	result := make(map[string]float64, len(rows))
	for _, row := range rows {
		result[row.Month] = row.Revenue
	}
	return result, nil
}

// ListBookingsWithUsers все бронирования с данными клиента и названием услуги
func (r *Repository) ListBookingsWithUsers(ctx context.Context) ([]*domain.AdminBooking, error) {
	const query = `
		SELECT
			b.id, b.user_id, b.service_id, b.resource_id, b.start_at, b.end_at,
			b.duration_minutes, b.total_price, b.status, b.notes, b.vehicle_type,
			b.license_plate, b.canceled_by, b.canceled_at, b.created_at, b.updated_at,
			u.first_name AS user_first_name,
			u.last_name AS user_last_name,
			u.email AS user_email,
			s.title AS service_title
		FROM bookings b
		LEFT JOIN users u ON u.id = b.user_id
		LEFT JOIN services s ON s.id = b.service_id
		ORDER BY b.start_at DESC`

	var rows []adminBookingRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: ListBookingsWithUsers: %v", ErrQuery, err)
	}

	result := make([]*domain.AdminBooking, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (row adminBookingRow) toDomain() *domain.AdminBooking {
	b := &domain.AdminBooking{
		Booking: domain.Booking{
			ID:              row.ID,
			UserID:          row.UserID,
			ServiceID:       row.ServiceID,
			StartAt:         row.StartAt,
			EndAt:           row.EndAt,
			DurationMinutes: row.DurationMinutes,
			TotalPrice:      row.TotalPrice,
			Status:          domain.BookingStatus(row.Status),
			CreatedAt:       row.CreatedAt,
			UpdatedAt:       row.UpdatedAt,
		},
		UserFirstName: row.UserFirstName.String,
		UserLastName:  row.UserLastName.String,
		UserEmail:     row.UserEmail.String,
	}

	if row.ResourceID.Valid {
		b.ResourceID = &row.ResourceID.Int64
	}
	if row.Notes.Valid {
		b.Notes = &row.Notes.String
	}
	if row.VehicleType.Valid {
		b.VehicleType = &row.VehicleType.String
	}
	if row.LicensePlate.Valid {
		b.LicensePlate = &row.LicensePlate.String
	}
	if row.CanceledBy.Valid {
		b.CanceledBy = &row.CanceledBy.Int64
	}
	if row.CanceledAt.Valid {
		b.CanceledAt = &row.CanceledAt.Time
	}
	if row.ServiceTitle.Valid {
		b.ServiceTitle = &row.ServiceTitle.String
	}
	return b
}
