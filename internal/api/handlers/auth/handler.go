package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	"github.com/m04kA/RC-BookingService/internal/api/middleware"
	authService "github.com/m04kA/RC-BookingService/internal/service/auth"
	"github.com/m04kA/RC-BookingService/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные"
	msgEmailTaken         = "email уже зарегистрирован"
	msgInvalidCredentials = "неверный email или пароль"
	msgWrongPassword      = "неверный текущий пароль"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgUserNotFound       = "пользователь не найден"
	msgLoggedOut          = "выход выполнен"
	msgPasswordChanged    = "пароль изменен"
)

// Handler обработчики /api/auth
type Handler struct {
	service AuthService
	cookie  CookieConfig
	logger  Logger
}

func NewHandler(service AuthService, cookie CookieConfig, logger Logger) *Handler {
	return &Handler{
		service: service,
		cookie:  cookie,
		logger:  logger,
	}
}

// Register POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/register - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrEmailTaken):
			h.logger.Warn("POST /auth/register - Email taken")
			handlers.RespondConflict(w, msgEmailTaken)

		case errors.Is(err, authService.ErrInvalidInput):
			h.logger.Warn("POST /auth/register - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /auth/register - Failed to register: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/register - User registered successfully: user_id=%d", user.ID)
	handlers.RespondJSON(w, http.StatusCreated, UserEnvelope{User: user})
}

// Login POST /api/auth/login
// Токен отдается и в HttpOnly cookie, и в теле ответа
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			h.logger.Warn("POST /auth/login - Invalid credentials")
			handlers.RespondUnauthorized(w, msgInvalidCredentials)

		case errors.Is(err, authService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /auth/login - Failed to login: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	http.SetCookie(w, h.newCookie(resp.Token, h.service.TokenTTL()))

	h.logger.Info("POST /auth/login - User logged in: user_id=%d", resp.User.ID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Logout POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := h.newCookie("", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)

	handlers.RespondMessage(w, http.StatusOK, msgLoggedOut)
}

// Me GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, authService.ErrUserNotFound) {
			h.logger.Warn("GET /auth/me - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)
			return
		}
		h.logger.Error("GET /auth/me - Failed to get user: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, UserEnvelope{User: user})
}

// ChangePassword POST /api/auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ChangePasswordRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/change-password - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			h.logger.Warn("POST /auth/change-password - Wrong current password: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgWrongPassword)

		case errors.Is(err, authService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, authService.ErrUserNotFound):
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("POST /auth/change-password - Failed to change password: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/change-password - Password changed: user_id=%d", userID)
	handlers.RespondMessage(w, http.StatusOK, msgPasswordChanged)
}

func (h *Handler) newCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookie.Secure {
		// cross-site фронтенд получает cookie только с SameSite=None; Secure
		cookie.SameSite = http.SameSiteNoneMode
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}
