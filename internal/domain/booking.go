package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStatus is returned for unknown booking statuses
var ErrInvalidStatus = errors.New("domain: invalid booking status")

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusRefused   BookingStatus = "refused"
)

// BlockingStatuses occupy resource capacity
var BlockingStatuses = []BookingStatus{StatusPending, StatusConfirmed}

var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusRefused},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// ParseBookingStatus validates a raw status value
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRefused:
		return true
	}
	return false
}

// IsBlocking reports whether a booking in this status occupies capacity
func (s BookingStatus) IsBlocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no further transition is possible
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is allowed
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking represents a reservation of a resource for a service
type Booking struct {
	ID              int64
	UserID          int64
	ServiceID       int64
	ResourceID      *int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	TotalPrice      float64
	Status          BookingStatus
	Notes           *string

	VehicleType  *string
	LicensePlate *string

	CanceledBy *int64
	CanceledAt *time.Time

	// Joined for listings
	ServiceTitle *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the occupied range [StartAt, EndAt)
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

// IsBlocking reports whether the booking occupies capacity
func (b *Booking) IsBlocking() bool {
	return b.Status.IsBlocking()
}

// IsOwnedBy reports whether userID created the booking
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// HasStarted reports whether the booking start is at or before now
func (b *Booking) HasStarted(now time.Time) bool {
	return !b.StartAt.After(now)
}

// BusyIntervals collects intervals of blocking bookings
func BusyIntervals(bookings []*Booking) []Interval {
	busy := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.IsBlocking() {
			busy = append(busy, b.Interval())
		}
	}
	return busy
}

// AdminBooking is a booking joined with its customer for the back-office listing
type AdminBooking struct {
	Booking
	UserFirstName string
	UserLastName  string
	UserEmail     string
}

// OverlapQuery selects blocking bookings overlapping a range
type OverlapQuery struct {
	ResourceID *int64 // nil = every resource
	Range      Interval
	ExcludeID  *int64 // booking being rescheduled
}
