package domain

import "time"

// Resource is a bookable bay or staff member
type Resource struct {
	ID        int64
	Name      string
	Capacity  int
	Active    bool
	CreatedAt time.Time
}

// Target is what availability is computed for: either a configured
// resource or the explicit "no resource configured" fallback.
type Target struct {
	resource *Resource
}

// ForResource targets a concrete resource
func ForResource(r Resource) Target {
	return Target{resource: &r}
}

// NoResourceConfigured targets the business as a whole with capacity 1
func NoResourceConfigured() Target {
	return Target{}
}

// Resource returns the targeted resource, if any
func (t Target) Resource() (Resource, bool) {
	if t.resource == nil {
		return Resource{}, false
	}
	return *t.resource, true
}

// IsConfigured reports whether the target is a real resource
func (t Target) IsConfigured() bool {
	return t.resource != nil
}

// Capacity returns how many concurrent blocking bookings fit
func (t Target) Capacity() int {
	if t.resource == nil {
		return 1
	}
	return t.resource.Capacity
}

// ResourceID returns the resource id, nil for the fallback target
func (t Target) ResourceID() *int64 {
	if t.resource == nil {
		return nil
	}
	id := t.resource.ID
	return &id
}

// Matches reports whether a row scoped to resourceID (nil = global) applies to the target
func (t Target) Matches(resourceID *int64) bool {
	if resourceID == nil {
		return true
	}
	return t.resource != nil && t.resource.ID == *resourceID
}
