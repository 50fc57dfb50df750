package auth

import (
	"context"
	"time"

	"github.com/m04kA/RC-BookingService/internal/service/auth/models"
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*models.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error
	TokenTTL() time.Duration
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
