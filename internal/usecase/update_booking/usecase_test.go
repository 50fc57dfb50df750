package update_booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
	"github.com/m04kA/RC-BookingService/internal/usecase/reservation"
	"github.com/m04kA/RC-BookingService/pkg/logger"
	"github.com/m04kA/RC-BookingService/pkg/ptr"
	"github.com/m04kA/RC-BookingService/pkg/txmanager"
)

const (
	ownerID = int64(7)
	otherID = int64(8)
	adminID = int64(1)
)

var (
	now   = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	tenAM = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type bookingStore struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
}

func (s *bookingStore) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *bookingStore) Update(_ context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	saved := *b
	s.bookings[b.ID] = &saved
	return nil
}

func (s *bookingStore) ListBlockingOverlapping(_ context.Context, q domain.OverlapQuery) ([]*domain.Booking, error) {
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
			out = append(out, b)
		}
	}
	return out, nil
}

type resourceStore []*domain.Resource

func (s resourceStore) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	for _, r := range s {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, resourceRepo.ErrResourceNotFound
}

func (s resourceStore) GetFirstActive(_ context.Context) (*domain.Resource, error) {
	for _, r := range s {
		if r.Active {
			return r, nil
		}
	}
	return nil, resourceRepo.ErrResourceNotFound
}

type fakeServices map[int64]*domain.Service

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// exhaustedTxManager every attempt lost to a concurrent serializable transaction
type exhaustedTxManager struct{}

func (exhaustedTxManager) DoSerializable(context.Context, func(ctx context.Context) error) error {
	serErr := &pq.Error{Code: "40001", Message: "could not serialize access due to read/write dependencies"}
	return fmt.Errorf("%w after 3 attempts: %w", txmanager.ErrSerializationConflict,
		fmt.Errorf("%w: failed to update booking: %w", ErrInternal, serErr))
}

type recordingEffects struct {
	committed []reservation.Change
	rejected  []string
}

func (e *recordingEffects) Committed(_ context.Context, change reservation.Change) {
	e.committed = append(e.committed, change)
}

func (e *recordingEffects) Rejected(_, outcome string) {
	e.rejected = append(e.rejected, outcome)
}

func booking(id, userID int64, start time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		UserID:          userID,
		ServiceID:       1,
		ResourceID:      ptr.Ptr(int64(1)),
		StartAt:         start,
		EndAt:           start.Add(time.Hour),
		DurationMinutes: 60,
		TotalPrice:      49.9,
		Status:          status,
	}
}

type fixture struct {
	uc      *UseCase
	store   *bookingStore
	effects *recordingEffects
}

func newFixture(capacity int, bookings ...*domain.Booking) *fixture {
	store := &bookingStore{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		store.bookings[b.ID] = b
	}
	resources := resourceStore{
		{ID: 1, Name: "Bay 1", Capacity: capacity, Active: true},
		{ID: 2, Name: "Bay 2", Capacity: 1, Active: true},
		{ID: 3, Name: "Old bay", Capacity: 1, Active: false},
	}
	services := fakeServices{
		1: {ID: 1, Title: "Lavage complet", DurationMinutes: 60, Price: 49.9, Active: true},
		2: {ID: 2, Title: "Lavage express", DurationMinutes: 30, Price: 19.9, Active: true},
		3: {ID: 3, Title: "Ancien", DurationMinutes: 30, Active: false},
	}
	effects := &recordingEffects{}
	guard := reservation.NewGuard(resources, store, logger.Discard())
	uc := NewUseCase(store, services, guard, effects, &serialTxManager{}, logger.Discard())
	uc.timeProvider = fixedTime{now: now}
	return &fixture{uc: uc, store: store, effects: effects}
}

func TestExecute_RescheduleExcludesItself(t *testing.T) {
	f := newFixture(1, booking(1, ownerID, tenAM, domain.StatusConfirmed))

	// Сдвиг на 30 минут пересекается только с самим собой
	newStart := tenAM.Add(30 * time.Minute)
	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: ownerID, StartAt: &newStart})
	require.NoError(t, err)

	assert.Equal(t, newStart, resp.Booking.StartAt)
	assert.Equal(t, newStart.Add(time.Hour), resp.Booking.EndAt)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)

	require.Len(t, f.effects.committed, 1)
	change := f.effects.committed[0]
	assert.Equal(t, operationReschedule, change.Operation)
	assert.Equal(t, domain.EventBookingRescheduled, change.Event)
	assert.Equal(t, domain.NotificationModification, change.Notification)
	assert.Equal(t, []domain.Interval{domain.NewInterval(tenAM, 60), domain.NewInterval(newStart, 60)}, change.Affected)
}

func TestExecute_RescheduleConflict(t *testing.T) {
	f := newFixture(1,
		booking(1, ownerID, tenAM, domain.StatusConfirmed),
		booking(2, otherID, tenAM.Add(2*time.Hour), domain.StatusConfirmed),
	)

	newStart := tenAM.Add(90 * time.Minute)
	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: ownerID, StartAt: &newStart})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, tenAM, f.store.bookings[1].StartAt, "booking unchanged on conflict")
	assert.Equal(t, []string{"conflict"}, f.effects.rejected)
	assert.Empty(t, f.effects.committed)
}

func TestExecute_RescheduleToOtherResource(t *testing.T) {
	f := newFixture(1,
		booking(1, ownerID, tenAM, domain.StatusConfirmed),
		booking(2, otherID, tenAM.Add(2*time.Hour), domain.StatusConfirmed),
	)

	newStart := tenAM.Add(2 * time.Hour)
	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:  1,
		ActorID:    ownerID,
		StartAt:    &newStart,
		ResourceID: ptr.Ptr(int64(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), *resp.Booking.ResourceID)
}

func TestExecute_RescheduleChangesServiceSnapshot(t *testing.T) {
	f := newFixture(1, booking(1, ownerID, tenAM, domain.StatusConfirmed))

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: ownerID, ServiceID: ptr.Ptr(int64(2))})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Booking.ServiceID)
	assert.Equal(t, 30, resp.Booking.DurationMinutes)
	assert.Equal(t, 19.9, resp.Booking.TotalPrice)
	assert.Equal(t, tenAM.Add(30*time.Minute), resp.Booking.EndAt)
	assert.Equal(t, "Lavage express", *resp.Booking.ServiceTitle)
}

func TestExecute_OwnerCancels(t *testing.T) {
	f := newFixture(1, booking(1, ownerID, tenAM, domain.StatusConfirmed))

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   ownerID,
		Status:    ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, domain.StatusCancelled, b.Status)
	require.NotNil(t, b.CanceledBy)
	assert.Equal(t, ownerID, *b.CanceledBy)
	require.NotNil(t, b.CanceledAt)
	assert.Equal(t, now, *b.CanceledAt)

	require.Len(t, f.effects.committed, 1)
	change := f.effects.committed[0]
	assert.Equal(t, operationUpdate, change.Operation)
	assert.Equal(t, domain.EventBookingStatusChanged, change.Event)
	assert.Equal(t, domain.NotificationCancellation, change.Notification)
	assert.NotEmpty(t, change.Affected)
}

func TestExecute_AdminCompletesPastBooking(t *testing.T) {
	past := now.Add(-3 * time.Hour)
	f := newFixture(1, booking(1, ownerID, past, domain.StatusConfirmed))

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		ActorID:      adminID,
		ActorIsAdmin: true,
		Status:       ptr.Ptr("completed"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, resp.Booking.Status)
	assert.Equal(t, domain.NotificationNone, f.effects.committed[0].Notification)
}

func TestExecute_NotesOnly(t *testing.T) {
	f := newFixture(1, booking(1, ownerID, tenAM, domain.StatusConfirmed))

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: ownerID, Notes: ptr.Ptr("  Clés à l'accueil ")})
	require.NoError(t, err)
	assert.Equal(t, "Clés à l'accueil", *resp.Booking.Notes)

	change := f.effects.committed[0]
	assert.Equal(t, domain.NotificationNone, change.Notification)
	assert.Empty(t, change.Event)
	assert.Empty(t, change.Affected)
}

func TestExecute_CancelledDoesNotBlockReschedule(t *testing.T) {
	// Отмененная бронь на том же слоте не занимает место
	f := newFixture(1,
		booking(1, ownerID, tenAM, domain.StatusConfirmed),
		booking(2, otherID, tenAM.Add(2*time.Hour), domain.StatusCancelled),
	)

	newStart := tenAM.Add(2 * time.Hour)
	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: ownerID, StartAt: &newStart})
	assert.NoError(t, err)
}

func TestExecute_Errors(t *testing.T) {
	past := now.Add(-time.Hour)
	soon := now.Add(-time.Minute)

	tests := []struct {
		name     string
		bookings []*domain.Booking
		req      *Request
		wantErr  error
	}{
		{
			name:    "nothing to update",
			req:     &Request{BookingID: 1, ActorID: ownerID},
			wantErr: ErrNothingToUpdate,
		},
		{
			name:    "invalid booking id",
			req:     &Request{BookingID: 0, ActorID: ownerID, Notes: ptr.Ptr("x")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown status",
			req:     &Request{BookingID: 1, ActorID: ownerID, Status: ptr.Ptr("archived")},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "booking not found",
			req:     &Request{BookingID: 42, ActorID: ownerID, Notes: ptr.Ptr("x")},
			wantErr: ErrBookingNotFound,
		},
		{
			name:     "stranger cannot cancel",
			bookings: []*domain.Booking{booking(1, ownerID, tenAM, domain.StatusConfirmed)},
			req:      &Request{BookingID: 1, ActorID: otherID, Status: ptr.Ptr("cancelled")},
			wantErr:  ErrAccessDenied,
		},
		{
			name:     "owner cannot confirm",
			bookings: []*domain.Booking{booking(1, ownerID, tenAM, domain.StatusPending)},
			req:      &Request{BookingID: 1, ActorID: ownerID, Status: ptr.Ptr("confirmed")},
			wantErr:  ErrAccessDenied,
		},
		{
			name:     "owner cannot touch a started booking",
			bookings: []*domain.Booking{booking(1, ownerID, past, domain.StatusConfirmed)},
			req:      &Request{BookingID: 1, ActorID: ownerID, Status: ptr.Ptr("cancelled")},
			wantErr:  ErrPastBooking,
		},
		{
			name:     "invalid transition",
			bookings: []*domain.Booking{booking(1, ownerID, tenAM, domain.StatusCancelled)},
			req:      &Request{BookingID: 1, ActorID: adminID, ActorIsAdmin: true, Status: ptr.Ptr("confirmed")},
			wantErr:  ErrInvalidTransition,
		},
		{
			name:     "cancelled booking cannot be rescheduled",
			bookings: []*domain.Booking{booking(1, ownerID, tenAM, domain.StatusCancelled)},
			req:      &Request{BookingID: 1, ActorID: ownerID, StartAt: ptr.Ptr(tenAM.Add(time.Hour))},
			wantErr:  ErrNotReschedulable,
		},
		{
			name:     "reschedule into the past",
			bookings: []*domain.Booking{booking(1, ownerID, tenAM, domain.StatusConfirmed)},
			req:      &Request{BookingID: 1, ActorID: ownerID, StartAt: &soon},
			wantErr:  ErrStartInPast,
		},
		{
			name:     "inactive service",
			bookings: []*domain.Booking{booking(1, ownerID, tenAM, domain.StatusConfirmed)},
			req:      &Request{BookingID: 1, ActorID: ownerID, ServiceID: ptr.Ptr(int64(3))},
			wantErr:  ErrServiceNotFound,
		},
		{
			name:     "inactive resource",
			bookings: []*domain.Booking{booking(1, ownerID, tenAM, domain.StatusConfirmed)},
			req:      &Request{BookingID: 1, ActorID: ownerID, ResourceID: ptr.Ptr(int64(3))},
			wantErr:  ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(1, tt.bookings...)
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.effects.committed)
		})
	}
}

func TestExecute_RescheduleRetriesExhaustedIsConflict(t *testing.T) {
	f := newFixture(3, booking(1, ownerID, tenAM, domain.StatusConfirmed))
	f.uc.txManager = exhaustedTxManager{}

	newStart := tenAM.Add(2 * time.Hour)
	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: ownerID, StartAt: &newStart})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{"conflict"}, f.effects.rejected)
	assert.Equal(t, tenAM, f.store.bookings[1].StartAt)
}

// failingServices каталог, чье чтение проиграло конкурентной транзакции
type failingServices struct{ err error }

func (f failingServices) GetByID(context.Context, int64) (*domain.Service, error) {
	return nil, f.err
}

// recordingTxManager запоминает ошибку, которую увидел бы цикл повторов
type recordingTxManager struct{ seen error }

func (m *recordingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.seen = fn(ctx)
	return m.seen
}

func TestExecute_ServiceLookupKeepsDriverErrorForRetry(t *testing.T) {
	f := newFixture(1, booking(1, ownerID, tenAM, domain.StatusConfirmed))
	serErr := &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}
	f.uc.serviceRepo = failingServices{err: fmt.Errorf("%w: GetByID - scan service: %w", catalogRepo.ErrScanRow, serErr)}
	tx := &recordingTxManager{}
	f.uc.txManager = tx

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: ownerID, ServiceID: ptr.Ptr(int64(2))})
	require.Error(t, err)

	require.Error(t, tx.seen)
	var pqErr *pq.Error
	require.ErrorAs(t, tx.seen, &pqErr)
	assert.True(t, txmanager.IsRetryable(tx.seen))
	assert.Equal(t, int64(1), f.store.bookings[1].ServiceID)
}
