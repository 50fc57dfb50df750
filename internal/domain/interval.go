package domain

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds [start, start+minutes)
func NewInterval(start time.Time, minutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

// IsEmpty reports whether the interval contains no instant
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals share at least one instant.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies entirely inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Subtract removes cut from i, leaving at most two pieces
func (i Interval) Subtract(cut Interval) []Interval {
	if i.IsEmpty() {
		return nil
	}
	if cut.IsEmpty() || !i.Overlaps(cut) {
		return []Interval{i}
	}

	pieces := make([]Interval, 0, 2)
	if i.Start.Before(cut.Start) {
		pieces = append(pieces, Interval{Start: i.Start, End: cut.Start})
	}
	if cut.End.Before(i.End) {
		pieces = append(pieces, Interval{Start: cut.End, End: i.End})
	}
	return pieces
}

// SubtractAll carves every cut out of every range. The result is sorted by start.
func SubtractAll(ranges []Interval, cuts []Interval) []Interval {
	result := append([]Interval(nil), ranges...)
	for _, cut := range cuts {
		next := make([]Interval, 0, len(result))
		for _, r := range result {
			next = append(next, r.Subtract(cut)...)
		}
		result = next
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Start.Before(result[b].Start) })
	return result
}

// CountOverlapping counts busy intervals that overlap slot.
// Shared by the availability calculator and the booking transaction manager.
func CountOverlapping(slot Interval, busy []Interval) int {
	count := 0
	for _, b := range busy {
		if slot.Overlaps(b) {
			count++
		}
	}
	return count
}

// HasCapacity reports whether one more booking fits into slot
func HasCapacity(slot Interval, busy []Interval, capacity int) bool {
	return CountOverlapping(slot, busy) < capacity
}
