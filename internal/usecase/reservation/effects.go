package reservation

import (
	"context"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// Change зафиксированное изменение бронирования
type Change struct {
	Operation    string // create, reschedule, update, delete - метка метрики
	Event        domain.EventType
	Notification domain.NotificationKind
	Booking      domain.Booking
	// Интервалы, даты которых нужно сбросить в кэше доступности (старый и новый при переносе)
	Affected []domain.Interval
}

// Effects побочные эффекты после коммита транзакции
// Ни один из них не влияет на результат операции: ошибки логируются
type Effects struct {
	notifier  Notifier
	publisher EventPublisher
	cache     CacheInvalidator
	metrics   Metrics
	location  *time.Location
	logger    Logger
}

// NewEffects создает обработчик пост-коммитных эффектов
// publisher и cache могут быть nil (kafka / redis отключены)
func NewEffects(
	notifier Notifier,
	publisher EventPublisher,
	cache CacheInvalidator,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Effects {
	return &Effects{
		notifier:  notifier,
		publisher: publisher,
		cache:     cache,
		metrics:   metrics,
		location:  location,
		logger:    logger,
	}
}

// Committed применяет эффекты зафиксированного изменения
func (e *Effects) Committed(ctx context.Context, change Change) {
	if e.metrics != nil {
		e.metrics.ObserveBooking(change.Operation, "ok")
	}

	// 1. Кэш доступности
	if e.cache != nil {
		for _, date := range AffectedDates(change.Affected, e.location) {
			if err := e.cache.InvalidateDate(ctx, date); err != nil {
				e.logger.Warn("Effects: booking id=%d - failed to invalidate availability for %s: %v",
					change.Booking.ID, date, err)
			}
		}
	}

	// 2. Событие
	if e.publisher != nil && change.Event != "" {
		event := domain.BookingEvent{
			Type:       change.Event,
			BookingID:  change.Booking.ID,
			UserID:     change.Booking.UserID,
			ResourceID: change.Booking.ResourceID,
			StartAt:    change.Booking.StartAt,
			EndAt:      change.Booking.EndAt,
			Status:     string(change.Booking.Status),
			OccurredAt: time.Now().UTC(),
		}
		if err := e.publisher.Publish(ctx, event); err != nil {
			e.logger.Warn("Effects: booking id=%d - failed to publish %s: %v", change.Booking.ID, change.Event, err)
		}
	}

	// 3. Уведомление (асинхронно)
	if e.notifier != nil && change.Notification != domain.NotificationNone {
		e.notifier.NotifyBooking(ctx, change.Notification, change.Booking)
	}
}

// Rejected учитывает отклоненную операцию в метриках
func (e *Effects) Rejected(operation, outcome string) {
	if e.metrics != nil {
		e.metrics.ObserveBooking(operation, outcome)
	}
}

// AffectedDates возвращает уникальные календарные даты (YYYY-MM-DD), которые затрагивают интервалы
func AffectedDates(intervals []domain.Interval, loc *time.Location) []string {
	seen := make(map[string]struct{})
	dates := make([]string, 0, len(intervals))

	add := func(t time.Time) {
		d := t.In(loc).Format(domain.DateFormat)
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}

	for _, iv := range intervals {
		if iv.IsEmpty() {
			continue
		}
		add(iv.Start)
		// Последний занятый момент; интервал до полуночи не затрагивает следующий день
		add(iv.End.Add(-time.Nanosecond))
	}
	return dates
}
