package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/handler"
)

func tripFixture() domain.Trip {
	start := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)
	d1, d2 := start, end
	return domain.Trip{
		ID:        uuid.New(),
		Title:     "London",
		StartDate: start,
		EndDate:   end,
		Status:    domain.TripUsable,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		DayLogs: []domain.DayLog{
			{ID: uuid.New(), Ordinal: 1, Date: &d1, Items: []domain.Item{}},
			{ID: uuid.New(), Ordinal: 2, Date: &d2, Items: []domain.Item{}},
			{ID: uuid.New(), Ordinal: 3, Items: []domain.Item{}},
		},
	}
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var got domain.Trip
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPost, "/trips", map[string]any{
		"title":     "London",
		"startDate": "2023-07-01",
		"endDate":   "2023-07-02",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "London", got.Title)
	assert.True(t, got.StartDate.Equal(fixture.StartDate))
	assert.True(t, got.EndDate.Equal(fixture.EndDate))

	resp := decode[handler.TripDetail](t, rec)
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, 2, resp.Period)
	require.Len(t, resp.DayLogs, 3)
	assert.Equal(t, "2023-07-01", resp.DayLogs[0].Date.Format("2006-01-02"))
	assert.Nil(t, resp.DayLogs[2].Date, "overflow day log has a null date")
	assert.NotNil(t, resp.DayLogs[2].Items)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: endDate must not be before startDate", domain.ErrValidation)
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPost, "/trips", map[string]any{
		"startDate": "2023-07-03",
		"endDate":   "2023-07-01",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "endDate must not be before startDate", resp.Error.Message)
}

func TestCreateTrip_400_MalformedBody(t *testing.T) {
	h := newHTTPHandler(services{trips: &mockTripServicer{}})

	for name, body := range map[string]any{
		"not json":     "{",
		"empty":        nil,
		"bad date":     map[string]any{"startDate": "July 1st", "endDate": "2023-07-02"},
		"wrong shapes": map[string]any{"title": 7},
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/trips", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "bad_request", decode[handler.ErrorResponse](t, rec).Error.Code)
		})
	}
}

func TestCreateTrip_500_HidesInternalError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, errors.New("pq: password authentication failed")
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPost, "/trips", map[string]any{
		"startDate": "2023-07-01",
		"endDate":   "2023-07-02",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "internal_error", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "password")
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200_Pagination(t *testing.T) {
	var got domain.PaginationParams
	svc := &mockTripServicer{
		list: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			got = p
			return []domain.Trip{tripFixture()}, 41, nil
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodGet, "/trips?page=3&limit=500", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 100}, got)
	resp := decode[handler.TripList](t, rec)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, handler.Pagination{Page: 3, Limit: 100, Total: 41}, resp.Pagination)
}

func TestListTrips_400_BadQuery(t *testing.T) {
	rec := do(t, newHTTPHandler(services{trips: &mockTripServicer{}}), http.MethodGet, "/trips?page=first", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /trips/{tripId} ---------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		getDetail: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodGet, "/trips/"+fixture.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.TripDetail](t, rec)
	assert.Equal(t, "London", resp.Title)
	assert.Len(t, resp.DayLogs, 3)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getDetail: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.GetDetail: %w", domain.ErrNotFound)
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodGet, "/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "trip not found", resp.Error.Message)
}

func TestGetTrip_400_InvalidID(t *testing.T) {
	rec := do(t, newHTTPHandler(services{trips: &mockTripServicer{}}), http.MethodGet, "/trips/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode[handler.ErrorResponse](t, rec).Error.Code)
}

// ---- PUT /trips/{tripId} ---------------------------------------------------

func TestUpdateTrip_200(t *testing.T) {
	fixture := tripFixture()
	var got domain.Trip
	svc := &mockTripServicer{
		update: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPut, "/trips/"+fixture.ID.String(), map[string]any{
		"title":       "London",
		"startDate":   "2023-07-01",
		"endDate":     "2023-07-05",
		"description": "longer stay",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fixture.ID, got.ID, "path id wins")
	assert.Equal(t, 5, got.Period())
	assert.Equal(t, "longer stay", got.Description)
}

func TestUpdateTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		update: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPut, "/trips/"+uuid.NewString(), map[string]any{
		"title":     "x",
		"startDate": "2023-07-01",
		"endDate":   "2023-07-01",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /trips/{tripId} ------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	id := uuid.New()
	svc := &mockTripServicer{
		delete: func(_ context.Context, got uuid.UUID) error {
			assert.Equal(t, id, got)
			return nil
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodDelete, "/trips/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodDelete, "/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- trip cities -----------------------------------------------------------

func TestCreateTrip_201_WithCities(t *testing.T) {
	fixture := tripFixture()
	fixture.Title = "Tokyo trip"
	fixture.Cities = []domain.City{
		{ID: 3, Name: "Tokyo", Country: "Japan"},
		{ID: 4, Name: "Seoul", Country: "South Korea"},
	}
	var got domain.Trip
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPost, "/trips", map[string]any{
		"startDate": "2023-07-01",
		"endDate":   "2023-07-02",
		"cityIds":   []int64{3, 4},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got.Cities, 2)
	assert.Equal(t, int64(3), got.Cities[0].ID)
	assert.Equal(t, int64(4), got.Cities[1].ID)

	resp := decode[handler.TripDetail](t, rec)
	assert.Equal(t, "Tokyo trip", resp.Title)
	require.Len(t, resp.Cities, 2)
	assert.Equal(t, "Tokyo", resp.Cities[0].Name)
	assert.Equal(t, "South Korea", resp.Cities[1].Country)
}

func TestUpdateTrip_CityIDs(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]any
		wantNil bool
		wantLen int
	}{
		{name: "absent keeps stored cities", body: map[string]any{}, wantNil: true},
		{name: "null keeps stored cities", body: map[string]any{"cityIds": nil}, wantNil: true},
		{name: "empty list clears", body: map[string]any{"cityIds": []int64{}}, wantLen: 0},
		{name: "list replaces", body: map[string]any{"cityIds": []int64{7, 1}}, wantLen: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fixture := tripFixture()
			var got domain.Trip
			svc := &mockTripServicer{
				update: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
					got = trip
					return fixture, nil
				},
			}
			body := map[string]any{"title": "x", "startDate": "2023-07-01", "endDate": "2023-07-02"}
			for k, v := range tc.body {
				body[k] = v
			}

			rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPut, "/trips/"+fixture.ID.String(), body)

			require.Equal(t, http.StatusOK, rec.Code)
			if tc.wantNil {
				assert.Nil(t, got.Cities)
				return
			}
			require.NotNil(t, got.Cities)
			assert.Len(t, got.Cities, tc.wantLen)
		})
	}
}

func TestUpdateTrip_422_UnknownCity(t *testing.T) {
	svc := &mockTripServicer{
		update: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: unknown city 99", domain.ErrValidation)
		},
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodPut, "/trips/"+uuid.NewString(), map[string]any{
		"startDate": "2023-07-01",
		"endDate":   "2023-07-01",
		"cityIds":   []int64{99},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown city 99")
}

func TestGetTrip_200_EmptyCitiesIsArray(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		getDetail: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return fixture, nil },
	}

	rec := do(t, newHTTPHandler(services{trips: svc}), http.MethodGet, "/trips/"+fixture.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cities":[]`)
}
