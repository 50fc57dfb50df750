package booking_flow_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
	"github.com/m04kA/RC-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/RC-BookingService/internal/usecase/get_availability"
	"github.com/m04kA/RC-BookingService/internal/usecase/reservation"
	"github.com/m04kA/RC-BookingService/pkg/logger"
	"github.com/m04kA/RC-BookingService/pkg/ptr"
	"github.com/m04kA/RC-BookingService/pkg/types"
)

// 2025-03-10 is a Monday, requests are made the day before
var (
	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// memoryStore bookings, resources and schedule shared by the calculator and the manager
type memoryStore struct {
	mu         sync.Mutex
	nextID     int64
	bookings   []*domain.Booking
	resources  []*domain.Resource
	hours      []*domain.BusinessHours
	exceptions []*domain.AvailabilityException
}

// clone copies bookings so that one submission does not affect the next
func (s *memoryStore) clone() *memoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &memoryStore{nextID: s.nextID, resources: s.resources, hours: s.hours, exceptions: s.exceptions}
	for _, b := range s.bookings {
		copied := *b
		c.bookings = append(c.bookings, &copied)
	}
	return c
}

func (s *memoryStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	saved := *b
	saved.ID = s.nextID
	s.bookings = append(s.bookings, &saved)
	out := saved
	return &out, nil
}

func (s *memoryStore) ListBlockingOverlapping(_ context.Context, q domain.OverlapQuery) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if q.ExcludeID != nil && b.ID == *q.ExcludeID {
			continue
		}
		if q.ResourceID != nil && (b.ResourceID == nil || *b.ResourceID != *q.ResourceID) {
			continue
		}
		if b.IsBlocking() && b.Interval().Overlaps(q.Range) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryStore) ListBusinessHours(_ context.Context, weekday *time.Weekday) ([]*domain.BusinessHours, error) {
	out := make([]*domain.BusinessHours, 0)
	for _, h := range s.hours {
		if weekday == nil || h.Weekday == *weekday {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *memoryStore) ListExceptions(_ context.Context, date *time.Time) ([]*domain.AvailabilityException, error) {
	out := make([]*domain.AvailabilityException, 0)
	for _, e := range s.exceptions {
		if date == nil || e.Date.Format(domain.DateFormat) == date.Format(domain.DateFormat) {
			out = append(out, e)
		}
	}
	return out, nil
}

// resourceTable resource lookups over the same store
type resourceTable struct{ store *memoryStore }

func (t resourceTable) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	for _, r := range t.store.resources {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, resourceRepo.ErrResourceNotFound
}

func (t resourceTable) GetFirstActive(_ context.Context) (*domain.Resource, error) {
	for _, r := range t.store.resources {
		if r.Active {
			return r, nil
		}
	}
	return nil, resourceRepo.ErrResourceNotFound
}

func (t resourceTable) List(_ context.Context, onlyActive bool) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0, len(t.store.resources))
	for _, r := range t.store.resources {
		if !onlyActive || r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

type serviceTable map[int64]*domain.Service

func (t serviceTable) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := t[id]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

// serialTxManager runs transactions one at a time, like row locks under SERIALIZABLE
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type noopEffects struct{}

func (noopEffects) Committed(context.Context, reservation.Change) {}

func (noopEffects) Rejected(string, string) {}

func calculator(store *memoryStore, services serviceTable) *get_availability.UseCase {
	return get_availability.NewUseCase(services, resourceTable{store}, store, store, nil, time.UTC, 30, logger.Discard()).
		WithTimeProvider(fixedTime{now: now})
}

func manager(store *memoryStore, services serviceTable) *create_booking.UseCase {
	guard := reservation.NewGuard(resourceTable{store}, store, logger.Discard())
	return create_booking.NewUseCase(store, services, guard, noopEffects{}, &serialTxManager{}, logger.Discard()).
		WithTimeProvider(fixedTime{now: now})
}

func at(minutes int) time.Time {
	return monday.Add(time.Duration(minutes) * time.Minute)
}

// randomStore two bays (capacity 2 and 1), Monday hours, optional lunch break
// and a handful of existing bookings in any status
func randomStore(rng *rand.Rand) *memoryStore {
	store := &memoryStore{
		resources: []*domain.Resource{
			{ID: 1, Name: "Bay 1", Capacity: 2, Active: true},
			{ID: 2, Name: "Bay 2", Capacity: 1, Active: true},
		},
		hours: []*domain.BusinessHours{
			{ID: 1, Weekday: time.Monday, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("18:00")},
		},
	}
	if rng.Intn(2) == 0 {
		store.hours = append(store.hours, &domain.BusinessHours{
			ID: 2, Weekday: time.Monday, ResourceID: ptr.Ptr(int64(2)),
			StartTime: types.MustTimeString("13:00"), EndTime: types.MustTimeString("20:00"),
		})
	}
	if rng.Intn(2) == 0 {
		store.exceptions = append(store.exceptions, &domain.AvailabilityException{
			ID: 1, Date: monday, IsClosed: true,
			StartTime: ptr.Ptr(types.MustTimeString("12:00")),
			EndTime:   ptr.Ptr(types.MustTimeString("13:00")),
		})
	}

	statuses := []domain.BookingStatus{domain.StatusConfirmed, domain.StatusPending, domain.StatusCancelled, domain.StatusCompleted}
	for i := rng.Intn(7); i > 0; i-- {
		start := at(8*60 + 15*rng.Intn(44))
		minutes := []int{30, 60, 90}[rng.Intn(3)]
		store.nextID++
		store.bookings = append(store.bookings, &domain.Booking{
			ID:              store.nextID,
			UserID:          99,
			ServiceID:       1,
			ResourceID:      ptr.Ptr(int64(1 + rng.Intn(2))),
			StartAt:         start,
			EndAt:           start.Add(time.Duration(minutes) * time.Minute),
			DurationMinutes: minutes,
			Status:          statuses[rng.Intn(len(statuses))],
		})
	}
	return store
}

func TestAdvertisedSlotsAreBookable(t *testing.T) {
	rng := rand.New(rand.NewSource(20250310))

	for scenario := 0; scenario < 200; scenario++ {
		store := randomStore(rng)
		duration := []int{30, 45, 60, 90}[rng.Intn(4)]
		services := serviceTable{1: {ID: 1, Title: "Lavage", DurationMinutes: duration, Price: 40, Active: true}}
		step := []int{15, 30, 60}[rng.Intn(3)]

		resp, err := calculator(store, services).Execute(context.Background(), &get_availability.Request{
			Date:        monday.Format(domain.DateFormat),
			ServiceID:   1,
			StepMinutes: step,
		})
		require.NoError(t, err)

		for _, slot := range resp.Slots {
			require.NotNil(t, slot.ResourceID)

			// Без промежуточных записей: каждый слот бронируется на своей копии
			created, err := manager(store.clone(), services).Execute(context.Background(), &create_booking.Request{
				UserID:     7,
				ServiceID:  1,
				ResourceID: slot.ResourceID,
				StartAt:    slot.StartAt,
			})
			require.NoError(t, err, "scenario %d: slot %s on resource %d was advertised but rejected",
				scenario, slot.StartAt.Format(time.RFC3339), *slot.ResourceID)
			assert.Equal(t, *slot.ResourceID, *created.Booking.ResourceID)
			assert.Equal(t, slot.EndAt, created.Booking.EndAt)
		}
	}
}

func TestConcurrentRandomWindowsRespectCapacity(t *testing.T) {
	const (
		capacity = 2
		attempts = 64
	)
	store := &memoryStore{resources: []*domain.Resource{{ID: 1, Name: "Bay 1", Capacity: capacity, Active: true}}}
	services := serviceTable{
		1: {ID: 1, Title: "Express", DurationMinutes: 30, Active: true},
		2: {ID: 2, Title: "Lavage", DurationMinutes: 60, Active: true},
		3: {ID: 3, Title: "Complet", DurationMinutes: 90, Active: true},
	}
	uc := manager(store, services)

	rng := rand.New(rand.NewSource(42))
	requests := make([]create_booking.Request, attempts)
	for i := range requests {
		requests[i] = create_booking.Request{
			UserID:     int64(i + 1),
			ServiceID:  int64(1 + rng.Intn(3)),
			ResourceID: ptr.Ptr(int64(1)),
			StartAt:    at(9*60 + 15*rng.Intn(33)),
		}
	}

	start := make(chan struct{})
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range requests {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(context.Background(), &requests[i])
		}(i)
	}
	close(start)
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.True(t, errors.Is(err, create_booking.ErrSlotNotAvailable), "unexpected error: %v", err)
	}
	assert.Positive(t, accepted)
	assert.Len(t, store.bookings, accepted)

	// Поминутная проверка: ни в один момент не занято больше мест, чем вместимость
	for minute := 9 * 60; minute < 19*60; minute++ {
		instant := at(minute)
		taken := 0
		for _, b := range store.bookings {
			if b.IsBlocking() && !instant.Before(b.StartAt) && instant.Before(b.EndAt) {
				taken++
			}
		}
		require.LessOrEqual(t, taken, capacity, "capacity exceeded at %s", instant.Format(domain.TimeFormat))
	}
}
