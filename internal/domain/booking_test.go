package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRefused, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusRefused, false},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusRefused, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusRefused.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseBookingStatus("in_progress")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestBusyIntervals_SkipsNonBlocking(t *testing.T) {
	bookings := []*Booking{
		{StartAt: at("10:00"), EndAt: at("11:00"), Status: StatusConfirmed},
		{StartAt: at("10:00"), EndAt: at("11:00"), Status: StatusCancelled},
		{StartAt: at("12:00"), EndAt: at("13:00"), Status: StatusPending},
		{StartAt: at("14:00"), EndAt: at("15:00"), Status: StatusCompleted},
	}

	assert.Equal(t, []Interval{iv("10:00", "11:00"), iv("12:00", "13:00")}, BusyIntervals(bookings))
}

func TestNotificationForStatus(t *testing.T) {
	assert.Equal(t, NotificationConfirmation, NotificationForStatus(StatusConfirmed))
	assert.Equal(t, NotificationCancellation, NotificationForStatus(StatusCancelled))
	assert.Equal(t, NotificationCancellation, NotificationForStatus(StatusRefused))
	assert.Equal(t, NotificationNone, NotificationForStatus(StatusCompleted))
}
