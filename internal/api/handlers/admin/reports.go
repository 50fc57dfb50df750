package admin

import (
	"net/http"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	adminService "github.com/m04kA/RC-BookingService/internal/service/admin"
)

type BookingListResponse struct {
	Bookings []adminService.AdminBookingResponse `json:"bookings"`
}

type UserListResponse struct {
	Users []adminService.UserResponse `json:"users"`
}

// ReportHandler отчеты админки: статистика, пользователи, бронирования
type ReportHandler struct {
	service ReportService
	logger  Logger
}

func NewReportHandler(service ReportService, logger Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// Stats GET /api/admin/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/stats - Failed to build stats: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Users GET /api/admin/users
func (h *ReportHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/users - Failed to list users: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	if users == nil {
		users = []adminService.UserResponse{}
	}
	handlers.RespondJSON(w, http.StatusOK, UserListResponse{Users: users})
}

// Bookings GET /api/admin/bookings
func (h *ReportHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.Bookings(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/bookings - Failed to list bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	if bookings == nil {
		bookings = []adminService.AdminBookingResponse{}
	}
	handlers.RespondJSON(w, http.StatusOK, BookingListResponse{Bookings: bookings})
}
