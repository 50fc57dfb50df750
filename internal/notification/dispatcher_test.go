package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/integrations/mailer"
	"github.com/m04kA/RC-BookingService/pkg/logger"
	"github.com/m04kA/RC-BookingService/pkg/ptr"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type stubUsers map[int64]*domain.User

func (s stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

type stubServices map[int64]*domain.Service

func (s stubServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if svc, ok := s[id]; ok {
		return svc, nil
	}
	return nil, errors.New("not found")
}

func newTestDispatcher(m Mailer) *Dispatcher {
	users := stubUsers{7: {ID: 7, FirstName: "Lea", Email: "lea@example.com"}}
	services := stubServices{2: {ID: 2, Title: "Lavage complet"}}
	return NewDispatcher(m, users, services, time.UTC, "https://racing-clean.example", time.Second, logger.Discard())
}

func TestNotifyBooking_Confirmation(t *testing.T) {
	m := &recordingMailer{}
	d := newTestDispatcher(m)

	d.NotifyBooking(context.Background(), domain.NotificationConfirmation, domain.Booking{
		ID:          1,
		UserID:      7,
		ServiceID:   2,
		StartAt:     time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		TotalPrice:  49.9,
		VehicleType: ptr.Ptr("SUV"),
	})
	d.Wait()

	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, "lea@example.com", msg.To)
	assert.Equal(t, "Réservation confirmée - Racing Clean", msg.Subject)
	assert.Contains(t, msg.Text, "Lavage complet le 10/03/2025 à 10:00")
	assert.Contains(t, msg.HTML, "SUV")
	assert.Contains(t, msg.HTML, "49.90 €")
}

func TestNotifyBooking_NoneKindSendsNothing(t *testing.T) {
	m := &recordingMailer{}
	d := newTestDispatcher(m)

	d.NotifyBooking(context.Background(), domain.NotificationNone, domain.Booking{ID: 1, UserID: 7})
	d.Wait()

	assert.Empty(t, m.sent)
}

func TestNotifyBooking_UnknownUserIsSwallowed(t *testing.T) {
	m := &recordingMailer{}
	d := newTestDispatcher(m)

	d.NotifyBooking(context.Background(), domain.NotificationCancellation, domain.Booking{ID: 1, UserID: 404})
	d.Wait()

	assert.Empty(t, m.sent)
}

func TestNotify_SendFailureDoesNotPanic(t *testing.T) {
	m := &recordingMailer{err: errors.New("smtp down")}
	d := newTestDispatcher(m)

	d.NotifyWelcome(context.Background(), domain.User{ID: 7, FirstName: "Lea", Email: "lea@example.com"})
	d.Wait()

	require.Len(t, m.sent, 1)
	assert.Equal(t, "Bienvenue chez Racing Clean", m.sent[0].Subject)
}

func TestNotify_SurvivesRequestCancellation(t *testing.T) {
	m := &recordingMailer{}
	d := newTestDispatcher(m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.NotifyAppointment(ctx, domain.NotificationCancellation, domain.Appointment{
		ID:              12,
		ClientName:      "Marc",
		ClientEmail:     "marc@example.com",
		AppointmentDate: time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC),
	})
	d.Wait()

	require.Len(t, m.sent, 1)
	assert.Equal(t, "Votre rendez-vous (12) a été annulé", m.sent[0].Subject)
	assert.Contains(t, m.sent[0].Text, "01/04/2025 à 15:30")
	assert.Empty(t, m.sent[0].HTML)
}
