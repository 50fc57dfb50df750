package list_my_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/internal/api/middleware"
	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/service/bookings/models"
	"github.com/m04kA/RC-BookingService/pkg/logger"
)

type fakeService struct {
	userID int64
	err    error
}

func (f *fakeService) ListMine(_ context.Context, userID int64) (*models.BookingListResponse, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	r = r.WithContext(middleware.WithUser(r.Context(), &domain.User{ID: 6}))
	w := httptest.NewRecorder()

	NewHandler(svc, logger.Discard()).Handle(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(6), svc.userID)
	assert.Contains(t, w.Body.String(), `"bookings":[`)
}

func TestHandle_Errors(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(&fakeService{}, logger.Discard()).Handle(w, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	r = r.WithContext(middleware.WithUser(r.Context(), &domain.User{ID: 6}))
	w = httptest.NewRecorder()
	NewHandler(&fakeService{err: errors.New("boom")}, logger.Discard()).Handle(w, r)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
