package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/handler"
)

func dayLogPath(tripID, dayLogID uuid.UUID) string {
	return "/trips/" + tripID.String() + "/daylogs/" + dayLogID.String()
}

func TestGetDayLog_200(t *testing.T) {
	tripID, dayLogID := uuid.New(), uuid.New()
	rating := decimal.RequireFromString("4.5")
	svc := &mockDayLogServicer{
		get: func(_ context.Context, gotTrip, gotLog uuid.UUID) (domain.DayLog, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, dayLogID, gotLog)
			return domain.DayLog{
				ID:      dayLogID,
				TripID:  tripID,
				Ordinal: 3,
				Items: []domain.Item{
					{ID: uuid.New(), Type: domain.ItemSpot, Title: "Museum", Ordinal: 1, Rating: &rating,
						Place: &domain.Place{Name: "British Museum", Category: domain.Category{ID: 201, Code: "museum", Kind: domain.CategoryPlace}}},
					{ID: uuid.New(), Type: domain.ItemNonSpot, Title: "Taxi", Ordinal: 2},
				},
			}, nil
		},
	}

	rec := do(t, newHTTPHandler(services{dayLogs: svc}), http.MethodGet, dayLogPath(tripID, dayLogID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.DayLog](t, rec)
	assert.Nil(t, resp.Date)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].ItemType)
	assert.Equal(t, "museum", resp.Items[0].Place.Category.Code)
	assert.True(t, resp.Items[0].Rating.Equal(rating))
	assert.False(t, resp.Items[1].ItemType)
	assert.Nil(t, resp.Items[1].Place)
}

func TestGetDayLog_404(t *testing.T) {
	svc := &mockDayLogServicer{
		get: func(_ context.Context, _, _ uuid.UUID) (domain.DayLog, error) {
			return domain.DayLog{}, domain.ErrNotFound
		},
	}

	rec := do(t, newHTTPHandler(services{dayLogs: svc}), http.MethodGet, dayLogPath(uuid.New(), uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "day log not found", decode[handler.ErrorResponse](t, rec).Error.Message)
}

func TestUpdateDayLog_204(t *testing.T) {
	var got string
	svc := &mockDayLogServicer{
		updateTitle: func(_ context.Context, _, _ uuid.UUID, title string) error {
			got = title
			return nil
		},
	}

	rec := do(t, newHTTPHandler(services{dayLogs: svc}), http.MethodPatch, dayLogPath(uuid.New(), uuid.New()),
		map[string]any{"title": "Arrival"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Arrival", got)
}

// ---- PATCH /trips/{tripId}/daylogs/{dayLogId}/order ------------------------

func TestReorderItems_204(t *testing.T) {
	tripID, dayLogID := uuid.New(), uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	var got []uuid.UUID
	svc := &mockDayLogServicer{
		reorderItems: func(_ context.Context, gotTrip, gotLog uuid.UUID, ids []uuid.UUID) error {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, dayLogID, gotLog)
			got = ids
			return nil
		},
	}

	rec := do(t, newHTTPHandler(services{dayLogs: svc}), http.MethodPatch, dayLogPath(tripID, dayLogID)+"/order",
		map[string]any{"itemIds": order})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, order, got)
}

func TestReorderItems_MissingListReachesService(t *testing.T) {
	var called bool
	svc := &mockDayLogServicer{
		reorderItems: func(_ context.Context, _, _ uuid.UUID, ids []uuid.UUID) error {
			called = true
			assert.Nil(t, ids)
			return fmt.Errorf("service.DayLogService.ReorderItems: %w: identifiers required", domain.ErrValidation)
		},
	}

	rec := do(t, newHTTPHandler(services{dayLogs: svc}), http.MethodPatch, dayLogPath(uuid.New(), uuid.New())+"/order",
		map[string]any{})

	assert.True(t, called)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "identifiers required", decode[handler.ErrorResponse](t, rec).Error.Message)
}

func TestReorderItems_400_BadItemID(t *testing.T) {
	rec := do(t, newHTTPHandler(services{dayLogs: &mockDayLogServicer{}}), http.MethodPatch,
		dayLogPath(uuid.New(), uuid.New())+"/order", `{"itemIds":["nope"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReorderItems_400_BadDayLogID(t *testing.T) {
	rec := do(t, newHTTPHandler(services{dayLogs: &mockDayLogServicer{}}), http.MethodPatch,
		"/trips/"+uuid.NewString()+"/daylogs/12/order", map[string]any{"itemIds": []string{}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[handler.ErrorResponse](t, rec).Error.Message, "dayLogId")
}
