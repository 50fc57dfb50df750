package update_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/RC-BookingService/internal/usecase/reservation"
	"github.com/m04kA/RC-BookingService/pkg/txmanager"
)

const (
	operationUpdate     = "update"
	operationReschedule = "reschedule"
)

// UseCase use case для изменения бронирования: статус, заметки, перенос
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	guard        Guard
	effects      Effects
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	guard Guard,
	effects Effects,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		guard:        guard,
		effects:      effects,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case изменения бронирования
// Бронирование блокируется на время транзакции; перенос проверяет вместимость, исключая само бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d, actor=%d, admin=%t", req.BookingID, req.ActorID, req.ActorIsAdmin)

	// 1. Валидация входных данных
	status, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	operation := operationUpdate
	if req.wantsReschedule() {
		operation = operationReschedule
	}

	now := uc.timeProvider.Now()

	var (
		before domain.Interval
		result *domain.Booking
	)

	// 2. Все проверки и запись - в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем бронирование (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		before = booking.Interval()

		// 2.2. Права доступа
		if err := authorize(req, booking, status, now); err != nil {
			return err
		}

		// 2.3. Переход статуса
		if status != nil && !booking.Status.CanTransitionTo(*status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, *status)
		}

		// 2.4. Перенос
		if req.wantsReschedule() {
			if err := uc.reschedule(txCtx, req, booking, status, now); err != nil {
				return err
			}
		}

		// 2.5. Остальные поля
		applyFields(req, booking)
		if status != nil {
			booking.Status = *status
			if *status == domain.StatusCancelled {
				actorID := req.ActorID
				canceledAt := now
				booking.CanceledBy = &actorID
				booking.CanceledAt = &canceledAt
			}
		}

		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, uc.translateError(operation, err)
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%d, status=%s", result.ID, result.Status)

	// 3. После коммита: кэш, событие, письмо
	uc.effects.Committed(ctx, buildChange(operation, req, status, before, *result))

	return &Response{Booking: result}, nil
}

// reschedule пересчитывает интервал и проверяет вместимость нового слота
func (uc *UseCase) reschedule(
	ctx context.Context,
	req *Request,
	booking *domain.Booking,
	status *domain.BookingStatus,
	now time.Time,
) error {
	if booking.Status.IsTerminal() {
		return fmt.Errorf("%w: status=%s", ErrNotReschedulable, booking.Status)
	}

	if req.StartAt != nil {
		if !req.StartAt.After(now) {
			return ErrStartInPast
		}
		booking.StartAt = *req.StartAt
	}

	// Смена услуги обновляет снимок длительности и цены
	if req.ServiceID != nil && *req.ServiceID != booking.ServiceID {
		service, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		if !service.Active {
			return ErrServiceNotFound
		}
		booking.ServiceID = service.ID
		booking.DurationMinutes = service.DurationMinutes
		booking.TotalPrice = service.Price
		booking.ServiceTitle = &service.Title
	}

	slot := domain.NewInterval(booking.StartAt, booking.DurationMinutes)
	booking.EndAt = slot.End

	resourceID := booking.ResourceID
	if req.ResourceID != nil {
		resourceID = req.ResourceID
	}

	// Неблокирующий итоговый статус не занимает вместимость
	finalStatus := booking.Status
	if status != nil {
		finalStatus = *status
	}
	if !finalStatus.IsBlocking() {
		booking.ResourceID = resourceID
		return nil
	}

	resource, err := uc.guard.Reserve(ctx, resourceID, slot, &booking.ID)
	if err != nil {
		return err
	}
	booking.ResourceID = &resource.ID
	return nil
}

// applyFields применяет заметки и данные автомобиля
func applyFields(req *Request, booking *domain.Booking) {
	if req.Notes != nil {
		booking.Notes = nonEmpty(*req.Notes)
	}
	if req.VehicleType != nil {
		booking.VehicleType = nonEmpty(*req.VehicleType)
	}
	if req.LicensePlate != nil {
		booking.LicensePlate = nonEmpty(*req.LicensePlate)
	}
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// buildChange определяет событие, письмо и затронутые даты
//
// Смена статуса - письмо по новому статусу; перенос без смены статуса - письмо об изменении;
// изменение одних заметок не рассылается и не сбрасывает кэш.
func buildChange(
	operation string,
	req *Request,
	status *domain.BookingStatus,
	before domain.Interval,
	booking domain.Booking,
) reservation.Change {
	change := reservation.Change{
		Operation:    operation,
		Notification: domain.NotificationNone,
		Booking:      booking,
	}

	rescheduled := req.wantsReschedule()

	switch {
	case status != nil:
		change.Notification = domain.NotificationForStatus(*status)
	case rescheduled:
		change.Notification = domain.NotificationModification
	}

	switch {
	case rescheduled:
		change.Event = domain.EventBookingRescheduled
	case status != nil:
		change.Event = domain.EventBookingStatusChanged
	}

	if rescheduled || status != nil {
		change.Affected = []domain.Interval{before, booking.Interval()}
	}

	return change
}

// translateError переводит ошибки транзакции в ошибки use case
func (uc *UseCase) translateError(operation string, err error) error {
	switch {
	case errors.Is(err, reservation.ErrSlotNotAvailable):
		uc.effects.Rejected(operation, "conflict")
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	case errors.Is(err, reservation.ErrResourceNotFound):
		uc.effects.Rejected(operation, "not_found")
		return ErrResourceNotFound
	case errors.Is(err, reservation.ErrNoResourceConfigured):
		uc.effects.Rejected(operation, "error")
		return ErrNoResourceConfigured
	case errors.Is(err, txmanager.ErrSerializationConflict):
		uc.effects.Rejected(operation, "conflict")
		uc.logger.Warn("UpdateBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrServiceNotFound):
		uc.effects.Rejected(operation, "not_found")
		uc.logger.Warn("UpdateBooking: %v", err)
		return err
	case errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrPastBooking),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrNotReschedulable),
		errors.Is(err, ErrStartInPast):
		uc.effects.Rejected(operation, "rejected")
		uc.logger.Warn("UpdateBooking: %v", err)
		return err
	case errors.Is(err, ErrInternal):
		uc.effects.Rejected(operation, "error")
		uc.logger.Error("UpdateBooking: %v", err)
		return err
	default:
		uc.effects.Rejected(operation, "error")
		uc.logger.Error("UpdateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}
}
