package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/infra/cache/availability"
)

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Resource, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListBusinessHours(ctx context.Context, weekday *time.Weekday) ([]*domain.BusinessHours, error)
	ListExceptions(ctx context.Context, date *time.Time) ([]*domain.AvailabilityException, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListBlockingOverlapping(ctx context.Context, q domain.OverlapQuery) ([]*domain.Booking, error)
}

// Cache интерфейс кэша доступности (опционален)
type Cache interface {
	Lookup(ctx context.Context, key availability.Key) ([]domain.Slot, availability.Stamp, bool, error)
	Store(ctx context.Context, key availability.Key, stamp availability.Stamp, slots []domain.Slot) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
