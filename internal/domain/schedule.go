package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RC-BookingService/pkg/types"
)

// ErrInvalidWeekday is returned for weekday values outside 0..7
var ErrInvalidWeekday = errors.New("domain: invalid weekday")

// NormalizeWeekday accepts both the 0-6 (Sunday=0) and the 1-7 (Sunday=7)
// conventions. They only differ for Sunday, so 7 maps to 0.
func NormalizeWeekday(raw int) (time.Weekday, error) {
	switch {
	case raw == 7:
		return time.Sunday, nil
	case raw >= 0 && raw <= 6:
		return time.Weekday(raw), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWeekday, raw)
	}
}

// BusinessHours is a recurring opening range for a weekday,
// global when ResourceID is nil
type BusinessHours struct {
	ID         int64
	Weekday    time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	ResourceID *int64
}

// Range materializes the opening hours on date
func (h BusinessHours) Range(date time.Time) Interval {
	return Interval{Start: h.StartTime.On(date), End: h.EndTime.On(date)}
}

// AvailabilityException is a one-off closure or partial unavailability on a date
type AvailabilityException struct {
	ID         int64
	Date       time.Time
	ResourceID *int64
	IsClosed   bool
	StartTime  *types.TimeString
	EndTime    *types.TimeString
	Reason     *string
}

// IsFullDayClosure reports a closure without a time range
func (e AvailabilityException) IsFullDayClosure() bool {
	return e.IsClosed && e.StartTime == nil && e.EndTime == nil
}

// PartialRange returns the unavailable range when both bounds are set
func (e AvailabilityException) PartialRange(date time.Time) (Interval, bool) {
	if e.StartTime == nil || e.EndTime == nil {
		return Interval{}, false
	}
	return Interval{Start: e.StartTime.On(date), End: e.EndTime.On(date)}, true
}
