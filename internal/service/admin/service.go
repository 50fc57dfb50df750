package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	bookingModels "github.com/m04kA/RC-BookingService/internal/service/bookings/models"
)

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("admin: internal error")

// Service сервис панели администратора
type Service struct {
	statsRepo    StatsRepository
	userRepo     UserRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса администратора
func NewService(statsRepo StatsRepository, userRepo UserRepository, location *time.Location, logger Logger) *Service {
	return &Service{
		statsRepo:    statsRepo,
		userRepo:     userRepo,
		location:     location,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// Stats собирает сводку: счетчики, распределения и выручку за последние месяцы
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	now := s.timeProvider.Now().In(s.location)
	s.logger.Info("Stats: computing dashboard at %s", now.Format(time.RFC3339))

	totals, err := s.statsRepo.Totals(ctx, now)
	if err != nil {
		s.logger.Error("Stats: totals: %v", err)
		return nil, fmt.Errorf("%w: Stats - totals: %v", ErrInternal, err)
	}

	byStatus, err := s.statsRepo.StatusDistribution(ctx)
	if err != nil {
		s.logger.Error("Stats: status distribution: %v", err)
		return nil, fmt.Errorf("%w: Stats - status distribution: %v", ErrInternal, err)
	}

	byService, err := s.statsRepo.ServiceDistribution(ctx)
	if err != nil {
		s.logger.Error("Stats: service distribution: %v", err)
		return nil, fmt.Errorf("%w: Stats - service distribution: %v", ErrInternal, err)
	}

	months := revenueMonths(now, domain.RevenueTrendMonths)
	revenue, err := s.statsRepo.RevenueByMonth(ctx, months[0])
	if err != nil {
		s.logger.Error("Stats: revenue by month: %v", err)
		return nil, fmt.Errorf("%w: Stats - revenue by month: %v", ErrInternal, err)
	}

	stats := &domain.AdminStats{
		TotalBookings:       totals.TotalBookings,
		TotalRevenue:        totals.TotalRevenue,
		Upcoming:            totals.Upcoming,
		Completed:           totals.Completed,
		Cancelled:           totals.Cancelled,
		StatusDistribution:  byStatus,
		ServiceDistribution: byService,
		MonthlyRevenue:      fillRevenue(months, revenue),
	}

	return fromDomainStats(stats), nil
}

// Users все пользователи, новые первыми
func (s *Service) Users(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("Users: repository error: %v", err)
		return nil, fmt.Errorf("%w: Users - repository error: %v", ErrInternal, err)
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{
			ID:               u.ID,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			Email:            u.Email,
			Phone:            u.Phone,
			Role:             string(u.Role),
			AcceptNewsletter: u.AcceptNewsletter,
			CreatedAt:        u.CreatedAt,
		})
	}
	return out, nil
}

// Bookings все бронирования с клиентом и названием услуги
func (s *Service) Bookings(ctx context.Context) ([]AdminBookingResponse, error) {
	bookings, err := s.statsRepo.ListBookingsWithUsers(ctx)
	if err != nil {
		s.logger.Error("Bookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: Bookings - repository error: %v", ErrInternal, err)
	}

	out := make([]AdminBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, AdminBookingResponse{
			BookingResponse: *bookingModels.FromDomainBooking(&b.Booking),
			UserFirstName:   b.UserFirstName,
			UserLastName:    b.UserLastName,
			UserEmail:       b.UserEmail,
		})
	}
	return out, nil
}

// revenueMonths первые дни последних n месяцев, включая текущий, по возрастанию
func revenueMonths(now time.Time, n int) []time.Time {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[i] = current.AddDate(0, i-(n-1), 0)
	}
	return months
}

// fillRevenue выручка по каждому месяцу, нули для месяцев без бронирований
func fillRevenue(months []time.Time, revenue map[string]float64) []domain.MonthlyRevenue {
	out := make([]domain.MonthlyRevenue, 0, len(months))
	for _, m := range months {
		key := m.Format(domain.MonthFormat)
		out = append(out, domain.MonthlyRevenue{Month: key, Revenue: revenue[key]})
	}
	return out
}
