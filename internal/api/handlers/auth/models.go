package auth

import "github.com/m04kA/RC-BookingService/internal/service/auth/models"

// CookieConfig параметры cookie с токеном
type CookieConfig struct {
	Name   string
	Secure bool
}

// UserEnvelope HTTP response model
type UserEnvelope struct {
	User *models.UserResponse `json:"user"`
}
