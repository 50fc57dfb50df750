package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RC-BookingService/internal/domain"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
)

// Guard проверка вместимости ресурса перед записью бронирования
// Должен вызываться внутри сериализуемой транзакции: строки ресурса и пересекающихся бронирований блокируются
type Guard struct {
	resourceRepo ResourceRepository
	bookingRepo  BookingRepository
	logger       Logger
}

// NewGuard создает новый экземпляр проверки вместимости
func NewGuard(resourceRepo ResourceRepository, bookingRepo BookingRepository, logger Logger) *Guard {
	return &Guard{
		resourceRepo: resourceRepo,
		bookingRepo:  bookingRepo,
		logger:       logger,
	}
}

// Reserve блокирует ресурс и проверяет, что на интервале есть свободное место
//
// resourceID = nil - берется первый активный ресурс по ID.
// excludeID - переносимое бронирование, не конфликтует само с собой.
func (g *Guard) Reserve(ctx context.Context, resourceID *int64, slot domain.Interval, excludeID *int64) (*domain.Resource, error) {
	// 1. Блокируем ресурс
	resource, err := g.lockResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	// 2. Блокируем пересекающиеся бронирования ресурса
	bookings, err := g.bookingRepo.ListBlockingOverlapping(ctx, domain.OverlapQuery{
		ResourceID: &resource.ID,
		Range:      slot,
		ExcludeID:  excludeID,
	})
	if err != nil {
		g.logger.Error("Reserve: failed to get overlapping bookings for resource=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: failed to get overlapping bookings: %w", ErrInternal, err)
	}

	// 3. Считаем пересечения тем же правилом, что и расчет доступности
	count := domain.CountOverlapping(slot, domain.BusyIntervals(bookings))
	if count >= resource.Capacity {
		g.logger.Warn("Reserve: slot not available on resource=%d, %d/%d spots taken",
			resource.ID, count, resource.Capacity)
		return nil, fmt.Errorf("%w: %d/%d spots taken", ErrSlotNotAvailable, count, resource.Capacity)
	}

	g.logger.Info("Reserve: slot available on resource=%d, %d/%d spots taken", resource.ID, count, resource.Capacity)
	return resource, nil
}

func (g *Guard) lockResource(ctx context.Context, resourceID *int64) (*domain.Resource, error) {
	if resourceID != nil {
		resource, err := g.resourceRepo.GetByID(ctx, *resourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				g.logger.Warn("Reserve: resource id=%d not found", *resourceID)
				return nil, ErrResourceNotFound
			}
			g.logger.Error("Reserve: failed to lock resource id=%d: %v", *resourceID, err)
			return nil, fmt.Errorf("%w: failed to lock resource: %w", ErrInternal, err)
		}
		if !resource.Active {
			g.logger.Warn("Reserve: resource id=%d is inactive", *resourceID)
			return nil, ErrResourceNotFound
		}
		return resource, nil
	}

	resource, err := g.resourceRepo.GetFirstActive(ctx)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			g.logger.Error("Reserve: no active resource configured")
			return nil, ErrNoResourceConfigured
		}
		g.logger.Error("Reserve: failed to lock first active resource: %v", err)
		return nil, fmt.Errorf("%w: failed to lock resource: %w", ErrInternal, err)
	}
	return resource, nil
}
