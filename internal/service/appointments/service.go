package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	appointmentRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/appointment"
	userRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/user"
	"github.com/m04kA/RC-BookingService/internal/service/appointments/models"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Service сервис встреч продавцов с клиентами
type Service struct {
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	notifier        Notifier
	publisher       EventPublisher
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса встреч
// notifier и publisher могут быть nil
func NewService(
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	notifier Notifier,
	publisher EventPublisher,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		publisher:       publisher,
		location:        location,
		logger:          logger,
	}
}

// Create создает встречу со статусом pending; продавец - текущий пользователь
// Точное совпадение времени с существующей встречей - конфликт
func (s *Service) Create(ctx context.Context, sellerID int64, req *models.CreateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Create: seller=%d, date=%s", sellerID, req.AppointmentDate)

	// 1. Валидация
	if strings.TrimSpace(req.ClientName) == "" || strings.TrimSpace(req.ClientEmail) == "" ||
		req.Type <= 0 || req.AppointmentDate == "" {
		return nil, fmt.Errorf("%w: clientName, clientEmail, type and appointmentDate are required", ErrInvalidInput)
	}

	date, err := s.parseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	// 2. Время уже занято
	taken, err := s.appointmentRepo.ExistsAt(ctx, date)
	if err != nil {
		s.logger.Error("Create: failed to check date: %v", err)
		return nil, fmt.Errorf("%w: Create - check date: %v", ErrInternal, err)
	}
	if taken {
		s.logger.Warn("Create: date=%s already taken", date)
		return nil, ErrDateTaken
	}

	// 3. Создаем; гонку закрывает уникальный индекс
	created, err := s.appointmentRepo.Create(ctx, &domain.Appointment{
		ClientName:        strings.TrimSpace(req.ClientName),
		ClientEmail:       strings.ToLower(strings.TrimSpace(req.ClientEmail)),
		AppointmentTypeID: req.Type,
		AppointmentDate:   date,
		Notes:             req.Notes,
		Status:            domain.AppointmentPending,
		SellerID:          sellerID,
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrDateTaken) {
			s.logger.Warn("Create: date=%s taken concurrently", date)
			return nil, ErrDateTaken
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created appointment id=%d", created.ID)
	s.publish(ctx, domain.EventAppointmentCreated, created)

	resp := models.FromDomainAppointment(created, s.location)
	return &resp, nil
}

// ListBySeller встречи продавца, новые первыми
func (s *Service) ListBySeller(ctx context.Context, sellerID int64) ([]models.AppointmentResponse, error) {
	list, err := s.appointmentRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		s.logger.Error("ListBySeller: repository error for seller=%d: %v", sellerID, err)
		return nil, fmt.Errorf("%w: ListBySeller - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainAppointmentList(list, s.location), nil
}

// ListMine встречи, где клиент - текущий пользователь (по email)
func (s *Service) ListMine(ctx context.Context, userID int64) ([]models.AppointmentResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("ListMine: failed to get user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListMine - get user: %v", ErrInternal, err)
	}

	list, err := s.appointmentRepo.ListByClientEmail(ctx, strings.ToLower(user.Email))
	if err != nil {
		s.logger.Error("ListMine: repository error for user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainAppointmentList(list, s.location), nil
}

// UpdateStatus меняет статус встречи (продавец или админ) и уведомляет клиента
func (s *Service) UpdateStatus(ctx context.Context, id int64, actor models.Actor, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d, status=%s by user=%d", id, req.Status, actor.UserID)

	status := domain.AppointmentStatus(req.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	appointment, err := s.getForActor(ctx, "UpdateStatus", id, actor)
	if err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}
	appointment.Status = status

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, status)
	s.publish(ctx, domain.EventAppointmentUpdated, appointment)
	s.notify(ctx, domain.NotificationForAppointmentStatus(status), appointment)

	resp := models.FromDomainAppointment(appointment, s.location)
	return &resp, nil
}

// Delete удаляет встречу (продавец или админ); клиент получает письмо об отмене
func (s *Service) Delete(ctx context.Context, id int64, actor models.Actor) error {
	s.logger.Info("Delete: appointment id=%d by user=%d", id, actor.UserID)

	appointment, err := s.getForActor(ctx, "Delete", id, actor)
	if err != nil {
		return err
	}

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	s.publish(ctx, domain.EventAppointmentDeleted, appointment)
	s.notify(ctx, domain.NotificationCancellation, appointment)
	return nil
}

// getForActor загружает встречу и проверяет, что пользователь - её продавец или админ
func (s *Service) getForActor(ctx context.Context, op string, id int64, actor models.Actor) (*domain.Appointment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid appointment id", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !actor.IsAdmin && appointment.SellerID != actor.UserID {
		s.logger.Warn("%s: user=%d is not the seller of appointment id=%d", op, actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return appointment, nil
}

func (s *Service) parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, s.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid appointmentDate %q", ErrInvalidInput, raw)
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, a *domain.Appointment) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishAppointment(ctx, domain.AppointmentEvent{
		Type:            eventType,
		AppointmentID:   a.ID,
		SellerID:        a.SellerID,
		ClientEmail:     a.ClientEmail,
		AppointmentDate: a.AppointmentDate,
		Status:          string(a.Status),
		OccurredAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish: appointment id=%d - failed to publish %s: %v", a.ID, eventType, err)
	}
}

func (s *Service) notify(ctx context.Context, kind domain.NotificationKind, a *domain.Appointment) {
	if s.notifier == nil || kind == domain.NotificationNone {
		return
	}
	s.notifier.NotifyAppointment(ctx, kind, *a)
}
