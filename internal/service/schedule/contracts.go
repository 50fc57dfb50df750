package schedule

import (
	"context"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListBusinessHours(ctx context.Context, weekday *time.Weekday) ([]*domain.BusinessHours, error)
	CreateBusinessHours(ctx context.Context, h *domain.BusinessHours) (*domain.BusinessHours, error)
	DeleteBusinessHours(ctx context.Context, id int64) error
	ListExceptions(ctx context.Context, date *time.Time) ([]*domain.AvailabilityException, error)
	CreateException(ctx context.Context, e *domain.AvailabilityException) (*domain.AvailabilityException, error)
	DeleteException(ctx context.Context, id int64) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Resource, error)
	Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	Update(ctx context.Context, res *domain.Resource) error
}

// AvailabilityCache интерфейс сброса кэша доступности
// Любое изменение расписания или ресурсов влияет на все даты
type AvailabilityCache interface {
	InvalidateAll(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
