package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/infra/cache/availability"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
	"github.com/m04kA/RC-BookingService/pkg/logger"
	"github.com/m04kA/RC-BookingService/pkg/ptr"
	"github.com/m04kA/RC-BookingService/pkg/types"
)

// 2025-03-10 is a Monday
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeServices map[int64]*domain.Service

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

type fakeResources []*domain.Resource

func (f fakeResources) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	for _, r := range f {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, resourceRepo.ErrResourceNotFound
}

func (f fakeResources) List(_ context.Context, onlyActive bool) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0, len(f))
	for _, r := range f {
		if !onlyActive || r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSchedule struct {
	hours      []*domain.BusinessHours
	exceptions []*domain.AvailabilityException
}

func (f *fakeSchedule) ListBusinessHours(_ context.Context, weekday *time.Weekday) ([]*domain.BusinessHours, error) {
	out := make([]*domain.BusinessHours, 0)
	for _, h := range f.hours {
		if weekday == nil || h.Weekday == *weekday {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeSchedule) ListExceptions(_ context.Context, date *time.Time) ([]*domain.AvailabilityException, error) {
	out := make([]*domain.AvailabilityException, 0)
	for _, e := range f.exceptions {
		if date == nil || isSameDay(e.Date, *date) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeBookings struct {
	bookings []*domain.Booking
	calls    int
}

func (f *fakeBookings) ListBlockingOverlapping(_ context.Context, q domain.OverlapQuery) ([]*domain.Booking, error) {
	f.calls++
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if !b.IsBlocking() || !b.Interval().Overlaps(q.Range) {
			continue
		}
		if q.ResourceID != nil && (b.ResourceID == nil || *b.ResourceID != *q.ResourceID) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeCache struct {
	slots  []domain.Slot
	hit    bool
	stored []domain.Slot
}

func (f *fakeCache) Lookup(context.Context, availability.Key) ([]domain.Slot, availability.Stamp, bool, error) {
	return f.slots, availability.Stamp{Version: 1}, f.hit, nil
}

func (f *fakeCache) Store(_ context.Context, _ availability.Key, _ availability.Stamp, slots []domain.Slot) error {
	f.stored = slots
	return nil
}

type fixture struct {
	services  fakeServices
	resources fakeResources
	schedule  *fakeSchedule
	bookings  *fakeBookings
	cache     Cache
	now       time.Time
}

func newFixture() *fixture {
	return &fixture{
		services: fakeServices{
			1: {ID: 1, Title: "Lavage", DurationMinutes: 60, Price: 40, Active: true},
			2: {ID: 2, Title: "Archive", DurationMinutes: 30, Active: false},
		},
		resources: fakeResources{
			{ID: 1, Name: "Bay 1", Capacity: 1, Active: true},
		},
		schedule: &fakeSchedule{
			hours: []*domain.BusinessHours{
				{ID: 1, Weekday: time.Monday, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("18:00")},
			},
		},
		bookings: &fakeBookings{},
		now:      monday.AddDate(0, 0, -1),
	}
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(f.services, f.resources, f.schedule, f.bookings, f.cache, time.UTC, 30, logger.Discard())
	uc.timeProvider = fixedTime{now: f.now}
	return uc
}

func at(hhmm string) time.Time {
	return types.MustTimeString(hhmm).On(monday)
}

func booking(id int64, resourceID *int64, start string, minutes int, status domain.BookingStatus) *domain.Booking {
	s := at(start)
	return &domain.Booking{
		ID:              id,
		ResourceID:      resourceID,
		StartAt:         s,
		EndAt:           s.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Status:          status,
	}
}

func starts(slots []domain.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartAt.Format(domain.TimeFormat)
	}
	return out
}

func TestExecute_BookedHourIsExcluded(t *testing.T) {
	f := newFixture()
	f.bookings.bookings = []*domain.Booking{booking(1, ptr.Ptr(int64(1)), "10:00", 60, domain.StatusConfirmed)}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	got := starts(resp.Slots)
	assert.Contains(t, got, "09:00")
	assert.NotContains(t, got, "09:30")
	assert.NotContains(t, got, "10:00")
	assert.NotContains(t, got, "10:30")
	assert.Contains(t, got, "11:00")
	assert.Equal(t, "17:00", got[len(got)-1], "last slot must end at closing time")
	assert.Len(t, got, 14)
	assert.Equal(t, 30, resp.StepMinutes)
	for _, s := range resp.Slots {
		require.NotNil(t, s.ResourceID)
		assert.Equal(t, int64(1), *s.ResourceID)
		assert.Equal(t, time.Hour, s.EndAt.Sub(s.StartAt))
	}
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.bookings.bookings = []*domain.Booking{booking(1, ptr.Ptr(int64(1)), "10:00", 60, domain.StatusCancelled)}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	assert.Contains(t, starts(resp.Slots), "10:00")
}

func TestExecute_PastSlotsFilteredToday(t *testing.T) {
	f := newFixture()
	f.now = at("14:30")

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	for _, s := range resp.Slots {
		assert.True(t, s.StartAt.After(f.now), "slot %s starts at or before now", s.StartAt.Format(domain.TimeFormat))
	}
	assert.Equal(t, "15:00", starts(resp.Slots)[0])
}

func TestExecute_PastFilterUsesStartNotEnd(t *testing.T) {
	f := newFixture()
	f.now = at("15:00")

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	assert.Equal(t, "15:30", starts(resp.Slots)[0], "a slot starting exactly now is dropped")
}

func TestExecute_LunchBreakCarved(t *testing.T) {
	f := newFixture()
	f.schedule.exceptions = []*domain.AvailabilityException{{
		ID:        1,
		Date:      monday,
		StartTime: ptr.Ptr(types.MustTimeString("12:00")),
		EndTime:   ptr.Ptr(types.MustTimeString("13:00")),
	}}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	got := starts(resp.Slots)
	assert.Contains(t, got, "11:00")
	assert.NotContains(t, got, "11:30")
	assert.NotContains(t, got, "12:00")
	assert.NotContains(t, got, "12:30")
	assert.Contains(t, got, "13:00")
}

func TestExecute_FullDayClosure(t *testing.T) {
	f := newFixture()
	f.schedule.exceptions = []*domain.AvailabilityException{{ID: 1, Date: monday, IsClosed: true}}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
}

func TestExecute_ClosureOfOtherResourceIgnored(t *testing.T) {
	f := newFixture()
	f.schedule.exceptions = []*domain.AvailabilityException{{ID: 1, Date: monday, IsClosed: true, ResourceID: ptr.Ptr(int64(99))}}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Slots)
}

func TestExecute_CapacityAboveOne(t *testing.T) {
	f := newFixture()
	f.resources = fakeResources{{ID: 1, Name: "Big bay", Capacity: 2, Active: true}}
	f.bookings.bookings = []*domain.Booking{booking(1, ptr.Ptr(int64(1)), "10:00", 60, domain.StatusConfirmed)}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)
	assert.Contains(t, starts(resp.Slots), "10:00", "one booking leaves room for a second")

	f.bookings.bookings = append(f.bookings.bookings, booking(2, ptr.Ptr(int64(1)), "10:00", 60, domain.StatusPending))

	resp, err = f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)
	assert.NotContains(t, starts(resp.Slots), "10:00")
}

func TestExecute_MergesResourcesSorted(t *testing.T) {
	f := newFixture()
	f.resources = fakeResources{
		{ID: 2, Name: "Bay 2", Capacity: 1, Active: true},
		{ID: 1, Name: "Bay 1", Capacity: 1, Active: true},
		{ID: 3, Name: "Closed bay", Capacity: 1, Active: false},
	}
	f.bookings.bookings = []*domain.Booking{booking(1, ptr.Ptr(int64(1)), "10:00", 60, domain.StatusConfirmed)}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1, StepMinutes: 60})
	require.NoError(t, err)

	// 9 starts on bay 2, 8 on bay 1 (10:00 is booked)
	require.Len(t, resp.Slots, 17)
	assert.Equal(t, int64(1), *resp.Slots[0].ResourceID)
	assert.Equal(t, int64(2), *resp.Slots[1].ResourceID)
	assert.Equal(t, at("09:00"), resp.Slots[0].StartAt)
	assert.Equal(t, at("10:00"), resp.Slots[2].StartAt)
	assert.Equal(t, int64(2), *resp.Slots[2].ResourceID)
	for i := 1; i < len(resp.Slots); i++ {
		assert.False(t, resp.Slots[i].StartAt.Before(resp.Slots[i-1].StartAt))
	}
}

func TestExecute_NoResourceConfigured(t *testing.T) {
	f := newFixture()
	f.resources = fakeResources{}
	f.schedule.hours = append(f.schedule.hours, &domain.BusinessHours{
		ID: 2, Weekday: time.Monday, ResourceID: ptr.Ptr(int64(7)),
		StartTime: types.MustTimeString("18:00"), EndTime: types.MustTimeString("21:00"),
	})
	f.bookings.bookings = []*domain.Booking{booking(1, nil, "10:00", 60, domain.StatusConfirmed)}

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	got := starts(resp.Slots)
	assert.NotContains(t, got, "10:00")
	assert.NotContains(t, got, "18:00", "resource-scoped hours do not apply")
	for _, s := range resp.Slots {
		assert.Nil(t, s.ResourceID)
	}
}

func TestExecute_OverlappingHoursDeduplicated(t *testing.T) {
	f := newFixture()
	f.schedule.hours = append(f.schedule.hours, &domain.BusinessHours{
		ID: 2, Weekday: time.Monday, ResourceID: ptr.Ptr(int64(1)),
		StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("12:00"),
	})

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 17)
}

func TestExecute_OtherWeekdayHasNoHours(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-11", ServiceID: 1})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"bad date", Request{Date: "10/03/2025", ServiceID: 1}, ErrInvalidDate},
		{"missing service", Request{Date: "2025-03-10"}, ErrInvalidInput},
		{"negative step", Request{Date: "2025-03-10", ServiceID: 1, StepMinutes: -5}, ErrInvalidStep},
		{"step too large", Request{Date: "2025-03-10", ServiceID: 1, StepMinutes: 1441}, ErrInvalidStep},
		{"unknown service", Request{Date: "2025-03-10", ServiceID: 42}, ErrServiceNotFound},
		{"inactive service", Request{Date: "2025-03-10", ServiceID: 2}, ErrServiceNotFound},
		{"unknown resource", Request{Date: "2025-03-10", ServiceID: 1, ResourceID: ptr.Ptr(int64(9))}, ErrResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.useCase().Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_InactiveResource(t *testing.T) {
	f := newFixture()
	f.resources = fakeResources{{ID: 1, Capacity: 1, Active: false}}

	_, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1, ResourceID: ptr.Ptr(int64(1))})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_CacheHitStillFiltersPast(t *testing.T) {
	f := newFixture()
	f.now = at("10:15")
	cache := &fakeCache{hit: true, slots: []domain.Slot{
		{StartAt: at("10:00"), EndAt: at("11:00")},
		{StartAt: at("11:00"), EndAt: at("12:00")},
	}}
	f.cache = cache

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"11:00"}, starts(resp.Slots))
	assert.Zero(t, f.bookings.calls)
}

func TestExecute_CacheMissStoresUnfiltered(t *testing.T) {
	f := newFixture()
	f.now = at("14:30")
	cache := &fakeCache{}
	f.cache = cache

	resp, err := f.useCase().Execute(context.Background(), &Request{Date: "2025-03-10", ServiceID: 1})
	require.NoError(t, err)

	assert.Len(t, cache.stored, 17)
	assert.Less(t, len(resp.Slots), len(cache.stored))
}
