package stats

import (
	"database/sql"
	"time"
)

// Totals сводные счетчики бронирований
type Totals struct {
	TotalBookings int     `db:"total_bookings"`
	TotalRevenue  float64 `db:"total_revenue"`
	Upcoming      int     `db:"upcoming"`
	Completed     int     `db:"completed"`
	Cancelled     int     `db:"cancelled"`
}

type statusRow struct {
	Status string `db:"status"`
	Count  int    `db:"cnt"`
}

type serviceRow struct {
	Title string `db:"title"`
	Count int    `db:"cnt"`
}

type monthRow struct {
	Month   string  `db:"ym"`
	Revenue float64 `db:"revenue"`
}

type adminBookingRow struct {
	ID              int64          `db:"id"`
	UserID          int64          `db:"user_id"`
	ServiceID       int64          `db:"service_id"`
	ResourceID      sql.NullInt64  `db:"resource_id"`
	StartAt         time.Time      `db:"start_at"`
	EndAt           time.Time      `db:"end_at"`
	DurationMinutes int            `db:"duration_minutes"`
	TotalPrice      float64        `db:"total_price"`
	Status          string         `db:"status"`
	Notes           sql.NullString `db:"notes"`
	VehicleType     sql.NullString `db:"vehicle_type"`
	LicensePlate    sql.NullString `db:"license_plate"`
	CanceledBy      sql.NullInt64  `db:"canceled_by"`
	CanceledAt      sql.NullTime   `db:"canceled_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	UserFirstName   sql.NullString `db:"user_first_name"`
	UserLastName    sql.NullString `db:"user_last_name"`
	UserEmail       sql.NullString `db:"user_email"`
	ServiceTitle    sql.NullString `db:"service_title"`
}
