package notification

import (
	"context"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/integrations/mailer"
)

// Mailer интерфейс отправки писем
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// UserRepository интерфейс репозитория пользователей (получатель письма)
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ServiceRepository интерфейс каталога услуг (название услуги в письме)
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
