package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/RC-BookingService/internal/domain"
	userRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/user"
	"github.com/m04kA/RC-BookingService/internal/service/auth/models"
)

// MinPasswordLength минимальная длина пароля
const MinPasswordLength = 8

// Config параметры выпуска токенов и хеширования паролей
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// Service сервис регистрации, входа и управления паролем
type Service struct {
	userRepo     UserRepository
	notifier     Notifier
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(userRepo UserRepository, notifier Notifier, cfg Config, logger Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:     userRepo,
		notifier:     notifier,
		cfg:          cfg,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// Register регистрирует пользователя с ролью default и отправляет приветственное письмо
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	email := normalizeEmail(req.Email)
	s.logger.Info("Register: registering user email=%s", email)

	// 1. Валидация
	if strings.TrimSpace(req.FirstName) == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: firstName, email and password are required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	// 2. Хеш пароля
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error("Register: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}

	// 3. Создаем пользователя; уникальность email - на стороне БД
	user, err := s.userRepo.Create(ctx, &domain.User{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            email,
		PasswordHash:     string(hash),
		Phone:            req.Phone,
		Role:             domain.RoleDefault,
		AcceptTerms:      req.AcceptTerms,
		AcceptNewsletter: req.AcceptNewsletter,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			s.logger.Warn("Register: email=%s already registered", email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: successfully registered user id=%d", user.ID)

	// 4. Письмо не влияет на результат регистрации
	if s.notifier != nil {
		s.notifier.NotifyWelcome(ctx, *user)
	}

	return models.FromDomainUser(user), nil
}

// Login проверяет email и пароль, выпускает токен
// Неизвестный email и неверный пароль неразличимы для клиента
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	s.logger.Info("Login: email=%s", email)

	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown email=%s", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error: %v", err)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login: wrong password for user id=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error("Login: %v", err)
		return nil, err
	}

	s.logger.Info("Login: user id=%d logged in", user.ID)
	return &models.LoginResponse{Token: token, User: *models.FromDomainUser(user)}, nil
}

// Authenticate проверяет токен и загружает пользователя (роль берется из БД)
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: Authenticate - repository error: %v", ErrInternal, err)
	}
	return user, nil
}

// Me возвращает профиль текущего пользователя
func (s *Service) Me(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Me: user id=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("Me: repository error for user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Me - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainUser(user), nil
}

// ChangePassword меняет пароль после проверки текущего
func (s *Service) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	s.logger.Info("ChangePassword: user id=%d", userID)

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fmt.Errorf("%w: currentPassword and newPassword are required", ErrInvalidInput)
	}
	if len(req.NewPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("ChangePassword: repository error for user id=%d: %v", userID, err)
		return fmt.Errorf("%w: ChangePassword - repository error: %v", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.logger.Warn("ChangePassword: wrong current password for user id=%d", userID)
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		s.logger.Error("ChangePassword: failed to update password for user id=%d: %v", userID, err)
		return fmt.Errorf("%w: ChangePassword - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ChangePassword: password changed for user id=%d", userID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
