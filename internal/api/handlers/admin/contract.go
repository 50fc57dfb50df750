package admin

import (
	"context"

	adminService "github.com/m04kA/RC-BookingService/internal/service/admin"
	"github.com/m04kA/RC-BookingService/internal/service/schedule/models"
)

type ReportService interface {
	Stats(ctx context.Context) (*adminService.StatsResponse, error)
	Users(ctx context.Context) ([]adminService.UserResponse, error)
	Bookings(ctx context.Context) ([]adminService.AdminBookingResponse, error)
}

type ScheduleService interface {
	ListBusinessHours(ctx context.Context) ([]models.BusinessHoursResponse, error)
	CreateBusinessHours(ctx context.Context, req *models.BusinessHoursRequest) (*models.BusinessHoursResponse, error)
	DeleteBusinessHours(ctx context.Context, id int64) error

	ListExceptions(ctx context.Context, date string) ([]models.ExceptionResponse, error)
	CreateException(ctx context.Context, req *models.ExceptionRequest) (*models.ExceptionResponse, error)
	DeleteException(ctx context.Context, id int64) error

	ListResources(ctx context.Context) ([]models.ResourceResponse, error)
	CreateResource(ctx context.Context, req *models.ResourceRequest) (*models.ResourceResponse, error)
	UpdateResource(ctx context.Context, id int64, req *models.ResourceRequest) (*models.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
