package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
	scheduleRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/RC-BookingService/internal/service/schedule/models"
)

// Service управление часами работы, исключениями и ресурсами (только админ)
type Service struct {
	scheduleRepo ScheduleRepository
	resourceRepo ResourceRepository
	cache        AvailabilityCache
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
// cache может быть nil (redis отключен)
func NewService(
	scheduleRepo ScheduleRepository,
	resourceRepo ResourceRepository,
	cache AvailabilityCache,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		resourceRepo: resourceRepo,
		cache:        cache,
		location:     location,
		logger:       logger,
	}
}

// ListBusinessHours все часы работы
func (s *Service) ListBusinessHours(ctx context.Context) ([]models.BusinessHoursResponse, error) {
	hours, err := s.scheduleRepo.ListBusinessHours(ctx, nil)
	if err != nil {
		s.logger.Error("ListBusinessHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBusinessHours - repository error: %v", ErrInternal, err)
	}

	out := make([]models.BusinessHoursResponse, 0, len(hours))
	for _, h := range hours {
		out = append(out, models.FromDomainBusinessHours(h))
	}
	return out, nil
}

// CreateBusinessHours добавляет часы работы; день недели нормализуется к 0-6
func (s *Service) CreateBusinessHours(ctx context.Context, req *models.BusinessHoursRequest) (*models.BusinessHoursResponse, error) {
	s.logger.Info("CreateBusinessHours: weekday=%d, %s-%s, resource=%v", req.Weekday, req.StartTime, req.EndTime, req.ResourceID)

	hours, err := toBusinessHours(req)
	if err != nil {
		s.logger.Warn("CreateBusinessHours: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkResource(ctx, req.ResourceID); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.CreateBusinessHours(ctx, hours)
	if err != nil {
		s.logger.Error("CreateBusinessHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBusinessHours - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "CreateBusinessHours")
	s.logger.Info("CreateBusinessHours: successfully created id=%d", created.ID)

	resp := models.FromDomainBusinessHours(created)
	return &resp, nil
}

// DeleteBusinessHours удаляет часы работы
func (s *Service) DeleteBusinessHours(ctx context.Context, id int64) error {
	if err := s.scheduleRepo.DeleteBusinessHours(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessHoursNotFound) {
			s.logger.Warn("DeleteBusinessHours: id=%d not found", id)
			return ErrBusinessHoursNotFound
		}
		s.logger.Error("DeleteBusinessHours: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBusinessHours - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "DeleteBusinessHours")
	s.logger.Info("DeleteBusinessHours: successfully deleted id=%d", id)
	return nil
}

// ListExceptions исключения расписания, опционально на дату (YYYY-MM-DD)
func (s *Service) ListExceptions(ctx context.Context, date string) ([]models.ExceptionResponse, error) {
	var filter *time.Time
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.ParseInLocation(domain.DateFormat, date, s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		filter = &d
	}

	exceptions, err := s.scheduleRepo.ListExceptions(ctx, filter)
	if err != nil {
		s.logger.Error("ListExceptions: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListExceptions - repository error: %v", ErrInternal, err)
	}

	out := make([]models.ExceptionResponse, 0, len(exceptions))
	for _, e := range exceptions {
		out = append(out, models.FromDomainException(e))
	}
	return out, nil
}

// CreateException добавляет закрытие на весь день или частичную недоступность
func (s *Service) CreateException(ctx context.Context, req *models.ExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("CreateException: date=%s, resource=%v, closed=%t", req.Date, req.ResourceID, req.IsClosed)

	exception, err := toException(req, s.location)
	if err != nil {
		s.logger.Warn("CreateException: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkResource(ctx, req.ResourceID); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.CreateException(ctx, exception)
	if err != nil {
		s.logger.Error("CreateException: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateException - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "CreateException")
	s.logger.Info("CreateException: successfully created id=%d", created.ID)

	resp := models.FromDomainException(created)
	return &resp, nil
}

// DeleteException удаляет исключение
func (s *Service) DeleteException(ctx context.Context, id int64) error {
	if err := s.scheduleRepo.DeleteException(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: id=%d not found", id)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "DeleteException")
	s.logger.Info("DeleteException: successfully deleted id=%d", id)
	return nil
}

// ListResources все ресурсы, включая неактивные
func (s *Service) ListResources(ctx context.Context) ([]models.ResourceResponse, error) {
	resources, err := s.resourceRepo.List(ctx, false)
	if err != nil {
		s.logger.Error("ListResources: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListResources - repository error: %v", ErrInternal, err)
	}

	out := make([]models.ResourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, models.FromDomainResource(r))
	}
	return out, nil
}

// CreateResource добавляет ресурс (пост, мойщик)
func (s *Service) CreateResource(ctx context.Context, req *models.ResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("CreateResource: name=%s, capacity=%d", req.Name, req.Capacity)

	if err := validateResource(req); err != nil {
		s.logger.Warn("CreateResource: validation failed: %v", err)
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.resourceRepo.Create(ctx, &domain.Resource{
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		Active:   active,
	})
	if err != nil {
		s.logger.Error("CreateResource: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateResource - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "CreateResource")
	s.logger.Info("CreateResource: successfully created id=%d", created.ID)

	resp := models.FromDomainResource(created)
	return &resp, nil
}

// UpdateResource меняет имя, вместимость и активность ресурса
// Уменьшение вместимости не затрагивает уже созданные бронирования
func (s *Service) UpdateResource(ctx context.Context, id int64, req *models.ResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("UpdateResource: id=%d, name=%s, capacity=%d", id, req.Name, req.Capacity)

	if err := validateResource(req); err != nil {
		s.logger.Warn("UpdateResource: validation failed: %v", err)
		return nil, err
	}

	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("UpdateResource: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("UpdateResource: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateResource - repository error: %v", ErrInternal, err)
	}

	resource.Name = strings.TrimSpace(req.Name)
	resource.Capacity = req.Capacity
	if req.Active != nil {
		resource.Active = *req.Active
	}

	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("UpdateResource: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateResource - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "UpdateResource")
	s.logger.Info("UpdateResource: successfully updated id=%d", id)

	resp := models.FromDomainResource(resource)
	return &resp, nil
}

// checkResource проверяет существование ресурса, к которому привязывается правило
func (s *Service) checkResource(ctx context.Context, resourceID *int64) error {
	if resourceID == nil {
		return nil
	}

	if _, err := s.resourceRepo.GetByID(ctx, *resourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("checkResource: resource id=%d not found", *resourceID)
			return ErrResourceNotFound
		}
		return fmt.Errorf("%w: checkResource - repository error: %v", ErrInternal, err)
	}
	return nil
}

// invalidate сбрасывает кэш доступности; ошибка не отменяет изменение
func (s *Service) invalidate(ctx context.Context, op string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache: %v", op, err)
	}
}
