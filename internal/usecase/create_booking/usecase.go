package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RC-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/RC-BookingService/internal/usecase/reservation"
	"github.com/m04kA/RC-BookingService/pkg/txmanager"
)

const operation = "create"

// UseCase use case для создания бронирования
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

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, service=%d, resource=%v, start=%s",
		req.UserID, req.ServiceID, req.ResourceID, req.StartAt.Format("2006-01-02T15:04:05Z07:00"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Начало должно быть в будущем
	if err := validateStart(req.StartAt, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: start=%s is in the past", req.StartAt)
		return nil, err
	}

	// 3. Получаем услугу: длительность и цена
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Интервал [start, start + duration)
	slot := domain.NewInterval(req.StartAt, service.DurationMinutes)

	var result *domain.Booking

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем ресурс и проверяем вместимость
		resource, err := uc.guard.Reserve(txCtx, req.ResourceID, slot, nil)
		if err != nil {
			return err
		}

		// 5.2. Создаем бронирование со снимком длительности и цены
		booking := &domain.Booking{
			UserID:          req.UserID,
			ServiceID:       service.ID,
			ResourceID:      &resource.ID,
			StartAt:         slot.Start,
			EndAt:           slot.End,
			DurationMinutes: service.DurationMinutes,
			TotalPrice:      service.Price,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
			VehicleType:     req.VehicleType,
			LicensePlate:    req.LicensePlate,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.translateError(err)
	}

	result.ServiceTitle = &service.Title
	uc.logger.Info("CreateBooking: successfully created booking id=%d on resource=%d", result.ID, *result.ResourceID)

	// 6. После коммита: кэш, событие, письмо-подтверждение
	uc.effects.Committed(ctx, reservation.Change{
		Operation:    operation,
		Event:        domain.EventBookingCreated,
		Notification: domain.NotificationForStatus(result.Status),
		Booking:      *result,
		Affected:     []domain.Interval{result.Interval()},
	})

	return &Response{Booking: result}, nil
}

// translateError переводит ошибки проверки вместимости в ошибки use case
func (uc *UseCase) translateError(err error) error {
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
		// Все попытки проиграли конкурентным транзакциям за тот же интервал
		uc.effects.Rejected(operation, "conflict")
		uc.logger.Warn("CreateBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	case errors.Is(err, ErrInternal):
		uc.effects.Rejected(operation, "error")
		return err
	default:
		uc.effects.Rejected(operation, "error")
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}
}
