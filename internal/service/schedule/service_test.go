package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/domain"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
	scheduleRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/RC-BookingService/internal/service/schedule/models"
	"github.com/m04kA/RC-BookingService/pkg/logger"
	"github.com/m04kA/RC-BookingService/pkg/ptr"
)

type memorySchedule struct {
	nextID     int64
	hours      []*domain.BusinessHours
	exceptions []*domain.AvailabilityException
}

func (m *memorySchedule) ListBusinessHours(_ context.Context, weekday *time.Weekday) ([]*domain.BusinessHours, error) {
	out := make([]*domain.BusinessHours, 0)
	for _, h := range m.hours {
		if weekday == nil || h.Weekday == *weekday {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memorySchedule) CreateBusinessHours(_ context.Context, h *domain.BusinessHours) (*domain.BusinessHours, error) {
	m.nextID++
	h.ID = m.nextID
	m.hours = append(m.hours, h)
	return h, nil
}

func (m *memorySchedule) DeleteBusinessHours(_ context.Context, id int64) error {
	for i, h := range m.hours {
		if h.ID == id {
			m.hours = append(m.hours[:i], m.hours[i+1:]...)
			return nil
		}
	}
	return scheduleRepo.ErrBusinessHoursNotFound
}

func (m *memorySchedule) ListExceptions(_ context.Context, date *time.Time) ([]*domain.AvailabilityException, error) {
	out := make([]*domain.AvailabilityException, 0)
	for _, e := range m.exceptions {
		if date == nil || e.Date.Equal(*date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memorySchedule) CreateException(_ context.Context, e *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	m.nextID++
	e.ID = m.nextID
	m.exceptions = append(m.exceptions, e)
	return e, nil
}

func (m *memorySchedule) DeleteException(_ context.Context, id int64) error {
	for i, e := range m.exceptions {
		if e.ID == id {
			m.exceptions = append(m.exceptions[:i], m.exceptions[i+1:]...)
			return nil
		}
	}
	return scheduleRepo.ErrExceptionNotFound
}

type memoryResources struct {
	items []*domain.Resource
}

func (m *memoryResources) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	for _, r := range m.items {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, resourceRepo.ErrResourceNotFound
}

func (m *memoryResources) List(_ context.Context, onlyActive bool) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0)
	for _, r := range m.items {
		if !onlyActive || r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryResources) Create(_ context.Context, r *domain.Resource) (*domain.Resource, error) {
	r.ID = int64(len(m.items) + 1)
	m.items = append(m.items, r)
	return r, nil
}

func (m *memoryResources) Update(_ context.Context, r *domain.Resource) error {
	for i, existing := range m.items {
		if existing.ID == r.ID {
			saved := *r
			m.items[i] = &saved
			return nil
		}
	}
	return resourceRepo.ErrResourceNotFound
}

type mockCache struct{ mock.Mock }

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newService(cache AvailabilityCache) (*Service, *memorySchedule, *memoryResources) {
	sched := &memorySchedule{}
	resources := &memoryResources{items: []*domain.Resource{{ID: 1, Name: "Bay 1", Capacity: 1, Active: true}}}
	return NewService(sched, resources, cache, time.UTC, logger.Discard()), sched, resources
}

func TestCreateBusinessHours_NormalizesSunday(t *testing.T) {
	cache := &mockCache{}
	cache.On("InvalidateAll", mock.Anything).Return(nil).Once()
	svc, sched, _ := newService(cache)

	resp, err := svc.CreateBusinessHours(context.Background(), &models.BusinessHoursRequest{
		Weekday:   7,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Weekday)
	assert.Equal(t, "09:00", resp.StartTime)
	require.Len(t, sched.hours, 1)
	assert.Equal(t, time.Sunday, sched.hours[0].Weekday)
	cache.AssertExpectations(t)
}

func TestCreateBusinessHours_Validation(t *testing.T) {
	svc, _, _ := newService(nil)

	tests := []struct {
		name    string
		req     models.BusinessHoursRequest
		wantErr error
	}{
		{name: "weekday out of range", req: models.BusinessHoursRequest{Weekday: 8, StartTime: "09:00", EndTime: "18:00"}, wantErr: ErrInvalidInput},
		{name: "bad time", req: models.BusinessHoursRequest{Weekday: 1, StartTime: "9h", EndTime: "18:00"}, wantErr: ErrInvalidInput},
		{name: "inverted range", req: models.BusinessHoursRequest{Weekday: 1, StartTime: "18:00", EndTime: "09:00"}, wantErr: ErrInvalidInput},
		{name: "unknown resource", req: models.BusinessHoursRequest{Weekday: 1, StartTime: "09:00", EndTime: "18:00", ResourceID: ptr.Ptr(int64(5))}, wantErr: ErrResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBusinessHours(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateException(t *testing.T) {
	svc, sched, _ := newService(nil)

	closed, err := svc.CreateException(context.Background(), &models.ExceptionRequest{Date: "2025-12-25", IsClosed: true})
	require.NoError(t, err)
	assert.Nil(t, closed.StartTime)
	assert.True(t, sched.exceptions[0].IsFullDayClosure())

	partial, err := svc.CreateException(context.Background(), &models.ExceptionRequest{
		Date:       "2025-03-10",
		ResourceID: ptr.Ptr(int64(1)),
		StartTime:  ptr.Ptr("12:00"),
		EndTime:    ptr.Ptr("13:00"),
		Reason:     ptr.Ptr("Pause déjeuner"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12:00", *partial.StartTime)

	_, err = svc.CreateException(context.Background(), &models.ExceptionRequest{Date: "2025-03-10", StartTime: ptr.Ptr("12:00")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateException(context.Background(), &models.ExceptionRequest{Date: "2025-03-10"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateException(context.Background(), &models.ExceptionRequest{Date: "10/03/2025", IsClosed: true})
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, err := svc.ListExceptions(context.Background(), "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newService(nil)

	assert.ErrorIs(t, svc.DeleteBusinessHours(context.Background(), 9), ErrBusinessHoursNotFound)
	assert.ErrorIs(t, svc.DeleteException(context.Background(), 9), ErrExceptionNotFound)
}

func TestResources(t *testing.T) {
	cache := &mockCache{}
	cache.On("InvalidateAll", mock.Anything).Return(errors.New("redis down"))
	svc, _, resources := newService(cache)

	created, err := svc.CreateResource(context.Background(), &models.ResourceRequest{Name: "Bay 2", Capacity: 2})
	require.NoError(t, err, "cache failure does not fail the write")
	assert.True(t, created.Active)

	updated, err := svc.UpdateResource(context.Background(), created.ID, &models.ResourceRequest{
		Name:     "Bay 2",
		Capacity: 3,
		Active:   ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)
	assert.False(t, updated.Active)

	list, err := svc.ListResources(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, resources.items, 2)

	_, err = svc.UpdateResource(context.Background(), 42, &models.ResourceRequest{Name: "X", Capacity: 1})
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = svc.CreateResource(context.Background(), &models.ResourceRequest{Name: "Bay 3", Capacity: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
