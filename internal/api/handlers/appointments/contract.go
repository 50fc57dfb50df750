package appointments

import (
	"context"

	"github.com/m04kA/RC-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	Create(ctx context.Context, sellerID int64, req *models.CreateAppointmentRequest) (*models.AppointmentResponse, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]models.AppointmentResponse, error)
	ListMine(ctx context.Context, userID int64) ([]models.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id int64, actor models.Actor, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error)
	Delete(ctx context.Context, id int64, actor models.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
