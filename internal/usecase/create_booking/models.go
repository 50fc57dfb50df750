package create_booking

import (
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID       int64     // ID пользователя из токена
	ServiceID    int64     // ID услуги (определяет длительность и цену)
	ResourceID   *int64    // ID ресурса (опционально, иначе первый активный)
	StartAt      time.Time // Желаемое начало
	Notes        *string   // Заметки (опционально)
	VehicleType  *string   // Тип автомобиля (опционально)
	LicensePlate *string   // Госномер (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
