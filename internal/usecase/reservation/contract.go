package reservation

import (
	"context"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов (чтение с блокировкой внутри транзакции)
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetFirstActive(ctx context.Context) (*domain.Resource, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListBlockingOverlapping(ctx context.Context, q domain.OverlapQuery) ([]*domain.Booking, error)
}

// Notifier интерфейс отправки уведомлений клиенту
type Notifier interface {
	NotifyBooking(ctx context.Context, kind domain.NotificationKind, booking domain.Booking)
}

// EventPublisher интерфейс публикации событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// CacheInvalidator интерфейс инвалидации кэша доступности по дате
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, date string) error
}

// Metrics интерфейс метрик бронирований
type Metrics interface {
	ObserveBooking(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
