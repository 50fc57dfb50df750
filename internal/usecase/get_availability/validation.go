package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// validateRequest валидирует запрос и возвращает дату (полночь в часовом поясе бизнеса) и шаг
func validateRequest(req *Request, loc *time.Location, defaultStep int) (time.Time, int, error) {
	if req.ServiceID <= 0 {
		return time.Time{}, 0, fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.ResourceID != nil && *req.ResourceID <= 0 {
		return time.Time{}, 0, fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}

	date, err := time.ParseInLocation(domain.DateFormat, req.Date, loc)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}

	step := req.StepMinutes
	if step == 0 {
		step = defaultStep
	}
	if step <= 0 || step > domain.MaxStepMinutes {
		return time.Time{}, 0, fmt.Errorf("%w: must be in 1..%d, got %d", ErrInvalidStep, domain.MaxStepMinutes, req.StepMinutes)
	}

	return date, step, nil
}
