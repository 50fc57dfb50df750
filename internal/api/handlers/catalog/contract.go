package catalog

import (
	"context"

	catalogService "github.com/m04kA/RC-BookingService/internal/service/catalog"
)

type CatalogService interface {
	List(ctx context.Context) ([]catalogService.ServiceResponse, error)
	GetByID(ctx context.Context, id int64) (*catalogService.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
