package update_booking

import (
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// Request модель запроса на изменение бронирования
// nil - поле не меняется
type Request struct {
	BookingID    int64
	ActorID      int64 // ID пользователя из токена
	ActorIsAdmin bool

	Status *string
	Notes  *string

	// Перенос: повторная проверка вместимости, как при создании
	StartAt    *time.Time
	ResourceID *int64
	ServiceID  *int64

	VehicleType  *string
	LicensePlate *string
}

// wantsReschedule запрошено изменение времени, ресурса или услуги
func (r *Request) wantsReschedule() bool {
	return r.StartAt != nil || r.ResourceID != nil || r.ServiceID != nil
}

// isEmpty в запросе нет изменяемых полей
func (r *Request) isEmpty() bool {
	return r.Status == nil && r.Notes == nil && !r.wantsReschedule() &&
		r.VehicleType == nil && r.LicensePlate == nil
}

// Response модель ответа с измененным бронированием
type Response struct {
	Booking *domain.Booking
}
