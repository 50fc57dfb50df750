package get_availability

import (
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	Date        string // YYYY-MM-DD в часовом поясе бизнеса
	ServiceID   int64
	ResourceID  *int64 // nil - по всем активным ресурсам
	StepMinutes int    // 0 - шаг по умолчанию
}

// Response модель ответа со свободными слотами
type Response struct {
	Date        time.Time
	ServiceID   int64
	StepMinutes int
	Slots       []domain.Slot // отсортированы по началу, затем по ресурсу
}
