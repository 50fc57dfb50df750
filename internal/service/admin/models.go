package admin

import (
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	bookingModels "github.com/m04kA/RC-BookingService/internal/service/bookings/models"
)

// StatsResponse сводка для панели администратора
type StatsResponse struct {
	TotalBookings       int              `json:"totalBookings"`
	TotalRevenue        float64          `json:"totalRevenue"`
	Upcoming            int              `json:"upcoming"`
	Completed           int              `json:"completed"`
	Cancelled           int              `json:"cancelled"`
	StatusDistribution  []StatusCount    `json:"statusDistribution"`
	ServiceDistribution []ServiceCount   `json:"serviceDistribution"`
	MonthlyRevenue      []MonthlyRevenue `json:"monthlyRevenue"`
}

// StatusCount количество бронирований в статусе
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ServiceCount количество бронирований услуги
type ServiceCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// MonthlyRevenue выручка за месяц
type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// AdminBookingResponse бронирование с данными клиента
type AdminBookingResponse struct {
	bookingModels.BookingResponse
	UserFirstName string `json:"userFirstName"`
	UserLastName  string `json:"userLastName"`
	UserEmail     string `json:"userEmail"`
}

// UserResponse пользователь в списке администратора
type UserResponse struct {
	ID               int64     `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Role             string    `json:"role"`
	AcceptNewsletter bool      `json:"acceptNewsletter"`
	CreatedAt        time.Time `json:"createdAt"`
}

func fromDomainStats(s *domain.AdminStats) *StatsResponse {
	resp := &StatsResponse{
		TotalBookings:       s.TotalBookings,
		TotalRevenue:        s.TotalRevenue,
		Upcoming:            s.Upcoming,
		Completed:           s.Completed,
		Cancelled:           s.Cancelled,
		StatusDistribution:  make([]StatusCount, 0, len(s.StatusDistribution)),
		ServiceDistribution: make([]ServiceCount, 0, len(s.ServiceDistribution)),
		MonthlyRevenue:      make([]MonthlyRevenue, 0, len(s.MonthlyRevenue)),
	}
	for _, c := range s.StatusDistribution {
		resp.StatusDistribution = append(resp.StatusDistribution, StatusCount{Status: c.Status, Count: c.Count})
	}
	for _, c := range s.ServiceDistribution {
		resp.ServiceDistribution = append(resp.ServiceDistribution, ServiceCount{Title: c.Title, Count: c.Count})
	}
	for _, m := range s.MonthlyRevenue {
		resp.MonthlyRevenue = append(resp.MonthlyRevenue, MonthlyRevenue{Month: m.Month, Revenue: m.Revenue})
	}
	return resp
}
