package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/infra/cache/availability"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
)

// UseCase use case расчета доступных слотов (Availability Calculator)
// Работает без блокировок: результат - снимок на момент запроса
type UseCase struct {
	serviceRepo  ServiceRepository
	resourceRepo ResourceRepository
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	cache        Cache
	location     *time.Location
	defaultStep  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// cache может быть nil - тогда слоты всегда считаются по БД
func NewUseCase(
	serviceRepo ServiceRepository,
	resourceRepo ResourceRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	cache Cache,
	location *time.Location,
	defaultStep int,
	logger Logger,
) *UseCase {
	if defaultStep <= 0 {
		defaultStep = domain.DefaultStepMinutes
	}
	return &UseCase{
		serviceRepo:  serviceRepo,
		resourceRepo: resourceRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		cache:        cache,
		location:     location,
		defaultStep:  defaultStep,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case расчета доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: date=%s, service=%d, resource=%v, step=%d",
		req.Date, req.ServiceID, req.ResourceID, req.StepMinutes)

	// 1. Валидация входных данных
	date, step, err := validateRequest(req, uc.location, uc.defaultStep)
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время в часовом поясе бизнеса
	now := uc.timeProvider.Now().In(uc.location)

	// 3. Получаем услугу (длительность слота)
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailability: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	response := &Response{Date: date, ServiceID: service.ID, StepMinutes: step}

	// 4. Определяем цели: указанный ресурс, все активные ресурсы, либо "ресурс не настроен"
	targets, err := uc.resolveTargets(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	// 5. Пробуем кэш (фильтр прошедших слотов применяется после кэша)
	key := availability.Key{
		Date:        date.Format(domain.DateFormat),
		ServiceID:   service.ID,
		ResourceID:  req.ResourceID,
		StepMinutes: step,
	}
	stamp, cacheable, cached := uc.lookupCache(ctx, key)
	if cached != nil {
		response.Slots = filterPastSlots(cached, date, now)
		uc.logger.Info("GetAvailability: cache hit, %d slots for date=%s", len(response.Slots), key.Date)
		return response, nil
	}

	// 6. Загружаем расписание и бронирования дня
	weekday := date.Weekday()
	hours, err := uc.scheduleRepo.ListBusinessHours(ctx, &weekday)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	exceptions, err := uc.scheduleRepo.ListExceptions(ctx, &date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	day := domain.Interval{Start: date, End: date.AddDate(0, 0, 1)}
	bookings, err := uc.bookingRepo.ListBlockingOverlapping(ctx, domain.OverlapQuery{Range: day})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Считаем слоты по каждой цели
	slots := make([]domain.Slot, 0)
	for _, target := range targets {
		busy := busyForTarget(target, bookings)
		slots = append(slots, generateTargetSlots(target, date, service.DurationMinutes, step, hours, exceptions, busy)...)
	}
	sortSlots(slots)

	if cacheable {
		uc.storeCache(ctx, key, stamp, slots)
	}

	// 8. Отбрасываем прошедшие слоты для сегодняшней даты
	response.Slots = filterPastSlots(slots, date, now)

	uc.logger.Info("GetAvailability: %d slots for date=%s, service=%d, targets=%d",
		len(response.Slots), key.Date, service.ID, len(targets))
	return response, nil
}

func (uc *UseCase) resolveTargets(ctx context.Context, resourceID *int64) ([]domain.Target, error) {
	if resourceID != nil {
		res, err := uc.resourceRepo.GetByID(ctx, *resourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("GetAvailability: resource id=%d not found", *resourceID)
				return nil, ErrResourceNotFound
			}
			uc.logger.Error("GetAvailability: failed to get resource id=%d: %v", *resourceID, err)
			return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		if !res.Active {
			uc.logger.Warn("GetAvailability: resource id=%d is inactive", *resourceID)
			return nil, ErrResourceNotFound
		}
		return []domain.Target{domain.ForResource(*res)}, nil
	}

	resources, err := uc.resourceRepo.List(ctx, true)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list resources: %v", err)
		return nil, fmt.Errorf("%w: failed to list resources: %v", ErrInternal, err)
	}

	if len(resources) == 0 {
		uc.logger.Warn("GetAvailability: no active resource configured, using global schedule")
		return []domain.Target{domain.NoResourceConfigured()}, nil
	}

	targets := make([]domain.Target, 0, len(resources))
	for _, res := range resources {
		targets = append(targets, domain.ForResource(*res))
	}
	return targets, nil
}

// lookupCache возвращает версию кэша, признак доступности кэша и слоты (nil при промахе)
// Ошибки кэша не прерывают расчет
func (uc *UseCase) lookupCache(ctx context.Context, key availability.Key) (availability.Stamp, bool, []domain.Slot) {
	if uc.cache == nil {
		return availability.Stamp{}, false, nil
	}
	slots, stamp, hit, err := uc.cache.Lookup(ctx, key)
	if err != nil {
		uc.logger.Warn("GetAvailability: cache lookup failed: %v", err)
		return availability.Stamp{}, false, nil
	}
	if !hit {
		return stamp, true, nil
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	return stamp, true, slots
}

func (uc *UseCase) storeCache(ctx context.Context, key availability.Key, stamp availability.Stamp, slots []domain.Slot) {
	if err := uc.cache.Store(ctx, key, stamp, slots); err != nil {
		uc.logger.Warn("GetAvailability: cache store failed: %v", err)
	}
}
