package domain

import "time"

// EventType names a booking lifecycle event
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingRescheduled   EventType = "booking.rescheduled"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventBookingDeleted       EventType = "booking.deleted"
	EventAppointmentCreated   EventType = "appointment.created"
	EventAppointmentUpdated   EventType = "appointment.status_changed"
	EventAppointmentDeleted   EventType = "appointment.deleted"
)

// BookingEvent is published after a committed change
type BookingEvent struct {
	Type       EventType
	BookingID  int64
	UserID     int64
	ResourceID *int64
	StartAt    time.Time
	EndAt      time.Time
	Status     string
	OccurredAt time.Time
}

// AppointmentEvent is published after a committed appointment change
type AppointmentEvent struct {
	Type            EventType
	AppointmentID   int64
	SellerID        int64
	ClientEmail     string
	AppointmentDate time.Time
	Status          string
	OccurredAt      time.Time
}
