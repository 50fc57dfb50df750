package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/domain"
	appointmentRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/appointment"
	userRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/user"
	"github.com/m04kA/RC-BookingService/internal/service/appointments/models"
	"github.com/m04kA/RC-BookingService/pkg/logger"
)

const (
	sellerID = int64(3)
	clientID = int64(7)
)

var paris, _ = time.LoadLocation("Europe/Paris")

type memoryAppointments struct {
	nextID int64
	items  map[int64]*domain.Appointment
}

func newMemoryAppointments() *memoryAppointments {
	return &memoryAppointments{items: make(map[int64]*domain.Appointment)}
}

func (m *memoryAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	for _, existing := range m.items {
		if existing.AppointmentDate.Equal(a.AppointmentDate) {
			return nil, appointmentRepo.ErrDateTaken
		}
	}
	m.nextID++
	saved := *a
	saved.ID = m.nextID
	m.items[saved.ID] = &saved
	out := saved
	return &out, nil
}

func (m *memoryAppointments) ExistsAt(_ context.Context, date time.Time) (bool, error) {
	for _, a := range m.items {
		if a.AppointmentDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if a, ok := m.items[id]; ok {
		out := *a
		return &out, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (m *memoryAppointments) ListBySeller(_ context.Context, id int64) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range m.items {
		if a.SellerID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAppointments) ListByClientEmail(_ context.Context, email string) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range m.items {
		if a.ClientEmail == email {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAppointments) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := m.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (m *memoryAppointments) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(m.items, id)
	return nil
}

type fakeUsers map[int64]*domain.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, userRepo.ErrUserNotFound
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyAppointment(ctx context.Context, kind domain.NotificationKind, a domain.Appointment) {
	m.Called(ctx, kind, a)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishAppointment(ctx context.Context, event domain.AppointmentEvent) error {
	return m.Called(ctx, event).Error(0)
}

type fixture struct {
	svc       *Service
	repo      *memoryAppointments
	notifier  *mockNotifier
	publisher *mockPublisher
}

func newFixture() *fixture {
	repo := newMemoryAppointments()
	users := fakeUsers{clientID: {ID: clientID, Email: "Client@Example.com"}}
	notifier := &mockNotifier{}
	publisher := &mockPublisher{}
	publisher.On("PublishAppointment", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo, users, notifier, publisher, paris, logger.Discard())
	return &fixture{svc: svc, repo: repo, notifier: notifier, publisher: publisher}
}

func createRequest(date string) *models.CreateAppointmentRequest {
	return &models.CreateAppointmentRequest{
		ClientName:      "Jean Dupont",
		ClientEmail:     "client@example.com",
		Type:            1,
		AppointmentDate: date,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), sellerID, createRequest("2025-03-10 09:30"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.AppointmentPending), resp.Status)
	assert.Equal(t, "2025-03-10 09:30:00", resp.AppointmentDate)
	assert.Equal(t, sellerID, resp.SellerID)

	stored := f.repo.items[resp.ID]
	assert.Equal(t, time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC), stored.AppointmentDate.UTC())

	f.publisher.AssertCalled(t, "PublishAppointment", mock.Anything, mock.MatchedBy(func(e domain.AppointmentEvent) bool {
		return e.Type == domain.EventAppointmentCreated && e.AppointmentID == resp.ID
	}))

	// Тот же момент в другом формате
	_, err = f.svc.Create(context.Background(), sellerID, createRequest("2025-03-10T08:30:00Z"))
	assert.ErrorIs(t, err, ErrDateTaken)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()

	req := createRequest("2025-03-10 09:30")
	req.ClientEmail = ""
	_, err := f.svc.Create(context.Background(), sellerID, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Create(context.Background(), sellerID, createRequest("next monday"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListMine_ByEmail(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), sellerID, createRequest("2025-03-10 09:30"))
	require.NoError(t, err)

	mine, err := f.svc.ListMine(context.Background(), clientID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	bySeller, err := f.svc.ListBySeller(context.Background(), sellerID)
	require.NoError(t, err)
	assert.Len(t, bySeller, 1)

	_, err = f.svc.ListMine(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		status string
		want   domain.NotificationKind
	}{
		{status: "confirmed", want: domain.NotificationConfirmation},
		{status: "accepted", want: domain.NotificationConfirmation},
		{status: "refused", want: domain.NotificationCancellation},
		{status: "pending", want: domain.NotificationNone},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			f := newFixture()
			created, err := f.svc.Create(context.Background(), sellerID, createRequest("2025-03-10 09:30"))
			require.NoError(t, err)

			if tt.want != domain.NotificationNone {
				f.notifier.On("NotifyAppointment", mock.Anything, tt.want, mock.Anything).Once()
			}

			resp, err := f.svc.UpdateStatus(context.Background(), created.ID, models.Actor{UserID: sellerID},
				&models.UpdateStatusRequest{Status: tt.status})
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.Status)

			f.notifier.AssertExpectations(t)
			if tt.want == domain.NotificationNone {
				f.notifier.AssertNotCalled(t, "NotifyAppointment", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdateStatus_Rules(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), sellerID, createRequest("2025-03-10 09:30"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, models.Actor{UserID: clientID},
		&models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, models.Actor{UserID: sellerID},
		&models.UpdateStatusRequest{Status: "en-attente"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateStatus(context.Background(), 42, models.Actor{UserID: 1, IsAdmin: true},
		&models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDelete_NotifiesCancellation(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), sellerID, createRequest("2025-03-10 09:30"))
	require.NoError(t, err)

	f.notifier.On("NotifyAppointment", mock.Anything, domain.NotificationCancellation, mock.MatchedBy(func(a domain.Appointment) bool {
		return a.ID == created.ID
	})).Once()

	require.NoError(t, f.svc.Delete(context.Background(), created.ID, models.Actor{UserID: 1, IsAdmin: true}))
	assert.Empty(t, f.repo.items)
	f.notifier.AssertExpectations(t)
}
