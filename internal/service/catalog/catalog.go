package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RC-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListActive(ctx context.Context) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Code            string  `json:"code"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

// Service публичный каталог услуг
type Service struct {
	repo   ServiceRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(repo ServiceRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List возвращает активные услуги по возрастанию ID
func (s *Service) List(ctx context.Context) ([]ServiceResponse, error) {
	services, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	out := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, fromDomain(svc))
	}
	return out, nil
}

// GetByID возвращает услугу по ID (в том числе неактивную)
func (s *Service) GetByID(ctx context.Context, id int64) (*ServiceResponse, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	resp := fromDomain(svc)
	return &resp, nil
}

func fromDomain(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Code:            s.Code,
		Title:           s.Title,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Active:          s.Active,
	}
}
