package update_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/api/middleware"
	"github.com/m04kA/RC-BookingService/internal/domain"
	updateBooking "github.com/m04kA/RC-BookingService/internal/usecase/update_booking"
	"github.com/m04kA/RC-BookingService/pkg/logger"
)

type fakeUseCase struct {
	got *updateBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *updateBooking.Request) (*updateBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &updateBooking.Response{Booking: &domain.Booking{
		ID:     req.BookingID,
		Status: domain.StatusConfirmed,
	}}, nil
}

func doRequest(h *Handler, id, body string, user *domain.User) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPut, "/api/bookings/"+id, strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"id": id})
	if user != nil {
		r = r.WithContext(middleware.WithUser(r.Context(), user))
	}
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_Reschedule(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.Discard())

	w := doRequest(h, "9", `{"startAt":"2030-01-02T10:00:00Z","resourceId":4}`, &domain.User{ID: 5, Role: domain.RoleAdmin})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(9), uc.got.BookingID)
	assert.Equal(t, int64(5), uc.got.ActorID)
	assert.True(t, uc.got.ActorIsAdmin)
	assert.True(t, uc.got.StartAt.Equal(time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(4), *uc.got.ResourceID)
	assert.Nil(t, uc.got.Status)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
}

func TestHandle_Errors(t *testing.T) {
	user := &domain.User{ID: 5}

	tests := []struct {
		name string
		id   string
		body string
		user *domain.User
		err  error
		want int
	}{
		{name: "bad id", id: "x", body: `{}`, user: user, want: http.StatusBadRequest},
		{name: "no user", id: "1", body: `{}`, want: http.StatusUnauthorized},
		{name: "bad body", id: "1", body: `[`, user: user, want: http.StatusBadRequest},
		{name: "bad startAt", id: "1", body: `{"startAt":"10:00"}`, user: user, want: http.StatusBadRequest},
		{name: "conflict", id: "1", body: `{}`, user: user, err: updateBooking.ErrSlotNotAvailable, want: http.StatusConflict},
		{name: "not found", id: "1", body: `{}`, user: user, err: updateBooking.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "service not found", id: "1", body: `{}`, user: user, err: updateBooking.ErrServiceNotFound, want: http.StatusNotFound},
		{name: "resource not found", id: "1", body: `{}`, user: user, err: updateBooking.ErrResourceNotFound, want: http.StatusNotFound},
		{name: "access denied", id: "1", body: `{}`, user: user, err: updateBooking.ErrAccessDenied, want: http.StatusForbidden},
		{name: "past booking", id: "1", body: `{}`, user: user, err: updateBooking.ErrPastBooking, want: http.StatusBadRequest},
		{name: "invalid transition", id: "1", body: `{}`, user: user, err: updateBooking.ErrInvalidTransition, want: http.StatusBadRequest},
		{name: "not reschedulable", id: "1", body: `{}`, user: user, err: updateBooking.ErrNotReschedulable, want: http.StatusBadRequest},
		{name: "nothing to update", id: "1", body: `{}`, user: user, err: updateBooking.ErrNothingToUpdate, want: http.StatusBadRequest},
		{name: "internal", id: "1", body: `{}`, user: user, err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.Discard())
			w := doRequest(h, tt.id, tt.body, tt.user)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
