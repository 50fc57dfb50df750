package get_availability

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	getAvailability "github.com/m04kA/RC-BookingService/internal/usecase/get_availability"
)

var (
	errMissingDate      = errors.New("date is required")
	errMissingServiceID = errors.New("serviceId is required")
	errInvalidServiceID = errors.New("invalid serviceId")
	errInvalidResource  = errors.New("invalid resourceId")
	errInvalidStep      = errors.New("invalid step")
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date        string `json:"date"`
	ServiceID   int64  `json:"serviceId"`
	StepMinutes int    `json:"stepMinutes"`
	Slots       []Slot `json:"slots"`
}

// Slot свободный интервал на ресурсе, время в RFC 3339
type Slot struct {
	ResourceID *int64 `json:"resourceId"`
	StartAt    string `json:"startAt"`
	EndAt      string `json:"endAt"`
}

// ToUseCaseRequest создает запрос use case из query параметров
// Формат даты проверяет use case
func ToUseCaseRequest(q url.Values) (*getAvailability.Request, error) {
	req := &getAvailability.Request{Date: q.Get("date")}
	if req.Date == "" {
		return nil, errMissingDate
	}

	serviceIDStr := q.Get("serviceId")
	if serviceIDStr == "" {
		return nil, errMissingServiceID
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, errInvalidServiceID
	}
	req.ServiceID = serviceID

	if raw := q.Get("resourceId"); raw != "" {
		resourceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errInvalidResource
		}
		req.ResourceID = &resourceID
	}

	if raw := q.Get("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidStep
		}
		req.StepMinutes = step
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = Slot{
			ResourceID: slot.ResourceID,
			StartAt:    slot.StartAt.Format(time.RFC3339),
			EndAt:      slot.EndAt.Format(time.RFC3339),
		}
	}

	return &AvailabilityResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		ServiceID:   resp.ServiceID,
		StepMinutes: resp.StepMinutes,
		Slots:       slots,
	}
}
