package admin

import (
	"context"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/infra/storage/stats"
)

// StatsRepository интерфейс агрегатов для панели администратора
type StatsRepository interface {
	Totals(ctx context.Context, now time.Time) (*stats.Totals, error)
	StatusDistribution(ctx context.Context) ([]domain.StatusCount, error)
	ServiceDistribution(ctx context.Context) ([]domain.ServiceCount, error)
	RevenueByMonth(ctx context.Context, since time.Time) (map[string]float64, error)
	ListBookingsWithUsers(ctx context.Context) ([]*domain.AdminBooking, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
