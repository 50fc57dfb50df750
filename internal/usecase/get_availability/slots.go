package get_availability

import (
	"sort"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// generateTargetSlots вычисляет свободные слоты одной цели на дату
//
// 1. Полное закрытие (для цели или глобальное) - слотов нет
// 2. Часы работы дня недели (глобальные + цели) превращаются в диапазоны [start, end)
// 3. Частичные исключения вырезаются из диапазонов
// 4. От начала каждого диапазона с шагом step перебираются кандидаты [p, p+duration),
//    кандидат подходит, если помещается в диапазон и пересечений с занятыми интервалами меньше вместимости
func generateTargetSlots(
	target domain.Target,
	date time.Time,
	durationMinutes int,
	stepMinutes int,
	hours []*domain.BusinessHours,
	exceptions []*domain.AvailabilityException,
	busy []domain.Interval,
) []domain.Slot {
	cuts := make([]domain.Interval, 0, len(exceptions))
	for _, e := range exceptions {
		if !target.Matches(e.ResourceID) {
			continue
		}
		if e.IsFullDayClosure() {
			return nil
		}
		if cut, ok := e.PartialRange(date); ok {
			cuts = append(cuts, cut)
		}
	}

	ranges := make([]domain.Interval, 0, len(hours))
	for _, h := range hours {
		if h.Weekday != date.Weekday() || !target.Matches(h.ResourceID) {
			continue
		}
		if r := h.Range(date); !r.IsEmpty() {
			ranges = append(ranges, r)
		}
	}

	open := domain.SubtractAll(ranges, cuts)

	step := time.Duration(stepMinutes) * time.Minute
	capacity := target.Capacity()
	resourceID := target.ResourceID()

	seen := make(map[int64]struct{})
	slots := make([]domain.Slot, 0)

	for _, r := range open {
		for p := r.Start; ; p = p.Add(step) {
			candidate := domain.NewInterval(p, durationMinutes)
			if !r.Contains(candidate) {
				break
			}
			// Пересекающиеся записи часов работы дают одинаковые начала
			if _, dup := seen[p.Unix()]; dup {
				continue
			}
			if !domain.HasCapacity(candidate, busy, capacity) {
				continue
			}
			seen[p.Unix()] = struct{}{}
			slots = append(slots, domain.Slot{
				ResourceID: resourceID,
				StartAt:    candidate.Start,
				EndAt:      candidate.End,
			})
		}
	}

	return slots
}

// busyForTarget выбирает занятые интервалы цели из бронирований дня
// Для цели без ресурса учитываются все бронирования дня
func busyForTarget(target domain.Target, bookings []*domain.Booking) []domain.Interval {
	if !target.IsConfigured() {
		return domain.BusyIntervals(bookings)
	}

	id := *target.ResourceID()
	own := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ResourceID != nil && *b.ResourceID == id {
			own = append(own, b)
		}
	}
	return domain.BusyIntervals(own)
}

// sortSlots сортирует по началу, при равенстве - по ID ресурса
func sortSlots(slots []domain.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if !a.StartAt.Equal(b.StartAt) {
			return a.StartAt.Before(b.StartAt)
		}
		return resourceKey(a.ResourceID) < resourceKey(b.ResourceID)
	})
}

func resourceKey(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// filterPastSlots для сегодняшней даты отбрасывает слоты, начинающиеся не позже now
func filterPastSlots(slots []domain.Slot, date, now time.Time) []domain.Slot {
	if !isSameDay(date, now) {
		return slots
	}

	result := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if s.StartAt.After(now) {
			result = append(result, s)
		}
	}
	return result
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
