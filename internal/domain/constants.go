package domain

// Availability defaults and limits
const (
	DefaultStepMinutes = 30
	MaxStepMinutes     = 24 * 60
	MaxNotesLength     = 1000
	RevenueTrendMonths = 6
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)
