package appointments

import (
	"context"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория встреч
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	ExistsAt(ctx context.Context, date time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Appointment, error)
	ListByClientEmail(ctx context.Context, email string) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория пользователей (email клиента)
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier интерфейс отправки писем клиенту
type Notifier interface {
	NotifyAppointment(ctx context.Context, kind domain.NotificationKind, appointment domain.Appointment)
}

// EventPublisher интерфейс публикации событий встреч
type EventPublisher interface {
	PublishAppointment(ctx context.Context, event domain.AppointmentEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
