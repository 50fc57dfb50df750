package domain

// AdminStats aggregates bookings for the back-office dashboard
type AdminStats struct {
	TotalBookings       int
	TotalRevenue        float64
	Upcoming            int
	Completed           int
	Cancelled           int
	StatusDistribution  []StatusCount
	ServiceDistribution []ServiceCount
	MonthlyRevenue      []MonthlyRevenue
}

// StatusCount is the number of bookings per status
type StatusCount struct {
	Status string
	Count  int
}

// ServiceCount is the number of bookings per service title
type ServiceCount struct {
	Title string
	Count int
}

// MonthlyRevenue is the confirmed/completed revenue of a month (YYYY-MM)
type MonthlyRevenue struct {
	Month   string
	Revenue float64
}
