package domain

// NotificationKind selects the message sent to the customer
type NotificationKind string

const (
	NotificationNone         NotificationKind = ""
	NotificationWelcome      NotificationKind = "welcome"
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationCancellation NotificationKind = "cancellation"
	NotificationModification NotificationKind = "modification"
)

// NotificationForStatus maps a booking status change to a notification
func NotificationForStatus(status BookingStatus) NotificationKind {
	switch status {
	case StatusConfirmed:
		return NotificationConfirmation
	case StatusCancelled, StatusRefused:
		return NotificationCancellation
	default:
		return NotificationNone
	}
}

// NotificationForAppointmentStatus maps an appointment status change to a notification
func NotificationForAppointmentStatus(status AppointmentStatus) NotificationKind {
	switch status {
	case AppointmentConfirmed, AppointmentValid, AppointmentAccepted:
		return NotificationConfirmation
	case AppointmentCancelled, AppointmentRefused:
		return NotificationCancellation
	default:
		return NotificationNone
	}
}
