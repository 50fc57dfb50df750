package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/service/schedule/models"
	"github.com/m04kA/RC-BookingService/pkg/types"
)

// parseRange разбирает пару "HH:MM" и проверяет start < end
func parseRange(start, end string) (types.TimeString, types.TimeString, error) {
	from, err := types.NewTimeStringFromString(start)
	if err != nil {
		return types.TimeString{}, types.TimeString{}, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	to, err := types.NewTimeStringFromString(end)
	if err != nil {
		return types.TimeString{}, types.TimeString{}, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if !from.IsBefore(to) {
		return types.TimeString{}, types.TimeString{}, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return from, to, nil
}

func toBusinessHours(req *models.BusinessHoursRequest) (*domain.BusinessHours, error) {
	weekday, err := domain.NormalizeWeekday(req.Weekday)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	from, to, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.BusinessHours{
		Weekday:    weekday,
		StartTime:  from,
		EndTime:    to,
		ResourceID: req.ResourceID,
	}, nil
}

func toException(req *models.ExceptionRequest, loc *time.Location) (*domain.AvailabilityException, error) {
	date, err := time.ParseInLocation(domain.DateFormat, req.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	exception := &domain.AvailabilityException{
		Date:       date,
		ResourceID: req.ResourceID,
		IsClosed:   req.IsClosed,
		Reason:     req.Reason,
	}

	// Частичное исключение требует обе границы
	switch {
	case req.StartTime != nil && req.EndTime != nil:
		from, to, err := parseRange(*req.StartTime, *req.EndTime)
		if err != nil {
			return nil, err
		}
		exception.StartTime = &from
		exception.EndTime = &to
	case req.StartTime != nil || req.EndTime != nil:
		return nil, fmt.Errorf("%w: both startTime and endTime are required for a partial exception", ErrInvalidInput)
	case !req.IsClosed:
		return nil, fmt.Errorf("%w: exception must be a closure or have a time range", ErrInvalidInput)
	}

	return exception, nil
}

func validateResource(req *models.ResourceRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidInput)
	}
	return nil
}
