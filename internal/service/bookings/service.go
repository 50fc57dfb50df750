package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RC-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/RC-BookingService/internal/service/bookings/models"
	"github.com/m04kA/RC-BookingService/internal/usecase/reservation"
)

const operationDelete = "delete"

// Service сервис для чтения и удаления бронирований
// Создание и изменение - в use case create_booking / update_booking
type Service struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	effects      Effects
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	effects Effects,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		effects:      effects,
		txManager:    txManager,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, админ - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid booking id", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.IsAdmin && !booking.IsOwnedBy(actor.UserID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	// Название услуги не критично для ответа
	if service, err := s.serviceRepo.GetByID(ctx, booking.ServiceID); err == nil {
		booking.ServiceTitle = &service.Title
	} else {
		s.logger.Warn("GetByID: failed to get service id=%d for booking id=%d: %v", booking.ServiceID, id, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListMine получает бронирования пользователя, новые первыми
func (s *Service) ListMine(ctx context.Context, userID int64) (*models.BookingListResponse, error) {
	s.logger.Info("ListMine: fetching bookings for user=%d", userID)

	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListMine: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMine: successfully fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// Delete удаляет бронирование
// Владелец или админ; клиент не может удалить уже начавшееся бронирование
func (s *Service) Delete(ctx context.Context, id int64, actor models.Actor) error {
	s.logger.Info("Delete: deleting booking id=%d by user=%d", id, actor.UserID)

	if id <= 0 {
		return fmt.Errorf("%w: invalid booking id", ErrInvalidInput)
	}

	var deleted *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование (FOR UPDATE)
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - get booking: %v", ErrInternal, err)
		}

		// 2. Права доступа
		if !actor.IsAdmin && !booking.IsOwnedBy(actor.UserID) {
			return ErrAccessDenied
		}
		if !actor.IsAdmin && booking.HasStarted(s.timeProvider.Now()) {
			return ErrPastBooking
		}

		// 3. Удаляем
		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		deleted = booking
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.effects.Rejected(operationDelete, "not_found")
			s.logger.Warn("Delete: booking id=%d not found", id)
		case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrPastBooking):
			s.effects.Rejected(operationDelete, "rejected")
			s.logger.Warn("Delete: user=%d cannot delete booking id=%d: %v", actor.UserID, id, err)
		default:
			s.effects.Rejected(operationDelete, "error")
			s.logger.Error("Delete: failed to delete booking id=%d: %v", id, err)
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: Delete - transaction failed: %v", ErrInternal, err)
			}
		}
		return err
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", id)

	s.effects.Committed(ctx, reservation.Change{
		Operation:    operationDelete,
		Event:        domain.EventBookingDeleted,
		Notification: domain.NotificationNone,
		Booking:      *deleted,
		Affected:     []domain.Interval{deleted.Interval()},
	})

	return nil
}
