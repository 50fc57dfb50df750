package models

import (
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// RegisterRequest запрос на регистрацию
type RegisterRequest struct {
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	Phone            *string `json:"phone,omitempty"`
	AcceptTerms      bool    `json:"acceptTerms"`
	AcceptNewsletter bool    `json:"acceptNewsletter"`
}

// LoginRequest запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest запрос на смену пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserResponse профиль пользователя без хеша пароля
type UserResponse struct {
	ID               int64     `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Role             string    `json:"role"`
	AcceptTerms      bool      `json:"acceptTerms"`
	AcceptNewsletter bool      `json:"acceptNewsletter"`
	CreatedAt        time.Time `json:"createdAt"`
}

// LoginResponse токен и профиль
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Phone:            u.Phone,
		Role:             string(u.Role),
		AcceptTerms:      u.AcceptTerms,
		AcceptNewsletter: u.AcceptNewsletter,
		CreatedAt:        u.CreatedAt,
	}
}

// FromDomainUserList конвертирует список пользователей
func FromDomainUserList(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *FromDomainUser(u))
	}
	return out
}
