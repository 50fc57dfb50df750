package domain

// Service is a cleaning offer from the catalog
type Service struct {
	ID              int64
	Code            string
	Title           string
	Description     *string
	DurationMinutes int
	Price           float64
	Active          bool
}
