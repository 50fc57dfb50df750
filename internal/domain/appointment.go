package domain

import "time"

// AppointmentStatus of a seller appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentValid     AppointmentStatus = "valid"
	AppointmentAccepted  AppointmentStatus = "accepted"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentRefused   AppointmentStatus = "refused"
)

// IsValid reports whether s is a known appointment status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentValid, AppointmentAccepted,
		AppointmentCancelled, AppointmentRefused:
		return true
	}
	return false
}

// Appointment is a seller-managed meeting with a client
type Appointment struct {
	ID                int64
	ClientName        string
	ClientEmail       string
	AppointmentTypeID int64
	AppointmentDate   time.Time
	Notes             string
	Status            AppointmentStatus
	SellerID          int64
	CreatedAt         time.Time

	// Joined from users by client email
	ClientPhone *string
}
