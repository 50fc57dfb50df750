package domain

import "time"

// Slot is a bookable start time on a target
type Slot struct {
	ResourceID *int64
	StartAt    time.Time
	EndAt      time.Time
}
