package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticketbook/internal/data/repository"
	"ticketbook/internal/gateway"
	"ticketbook/internal/queue"
	"ticketbook/internal/usecase"
	"ticketbook/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// newOfflineApp wires the full stack against a remote service that is down,
// so every write lands in local storage.
func newOfflineApp(t *testing.T) *App {
	t.Helper()

	remote := httptest.NewServer(http.NotFoundHandler())
	remote.Close()

	config := &utils.Config{
		Remote:  utils.RemoteConfig{BaseURL: remote.URL, Timeout: 200 * time.Millisecond, HealthInterval: time.Hour},
		Sync:    utils.SyncConfig{Interval: time.Hour, MaxAttempts: 3},
		Booking: utils.BookingConfig{ErrorWindow: 5 * time.Second},
	}

	log := zap.NewNop()
	repo := repository.NewRepositoryWithStore(repository.NewMemoryStore(), log)
	gw := gateway.NewClient(config.Remote, log)

	service := usecase.NewService(repo, gw, queue.NopPublisher{}, config, log)
	service.Manager.Initialize(context.Background())

	return Wiring(service, log)
}

func doRequest(t *testing.T, app *App, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func createShow(t *testing.T, app *App, name, showType string, seats int, price float64) string {
	t.Helper()

	rec, env := doRequest(t, app, http.MethodPost, "/api/admin/shows", map[string]any{
		"name":        name,
		"start_time":  time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"total_seats": seats,
		"price":       price,
		"type":        showType,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var show map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &show))
	assert.Equal(t, name, show["name"])
	assert.EqualValues(t, seats, show["total_seats"])
	return show["id"].(string)
}

func TestHealth(t *testing.T) {
	app := newOfflineApp(t)

	rec, _ := doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCreateShowValidation(t *testing.T) {
	app := newOfflineApp(t)

	testCases := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{
			name:  "blank name",
			body:  map[string]any{"name": "   ", "start_time": time.Now().Add(time.Hour).Format(time.RFC3339), "total_seats": 10, "price": 5},
			field: "Name",
		},
		{
			name:  "past start",
			body:  map[string]any{"name": "Late", "start_time": time.Now().Add(-time.Hour).Format(time.RFC3339), "total_seats": 10, "price": 5},
			field: "StartTime",
		},
		{
			name:  "no seats",
			body:  map[string]any{"name": "Empty", "start_time": time.Now().Add(time.Hour).Format(time.RFC3339), "total_seats": 0, "price": 5},
			field: "TotalSeats",
		},
		{
			name:  "negative price",
			body:  map[string]any{"name": "Cheap", "start_time": time.Now().Add(time.Hour).Format(time.RFC3339), "total_seats": 10, "price": -1},
			field: "Price",
		},
		{
			name:  "unknown type",
			body:  map[string]any{"name": "Boat", "start_time": time.Now().Add(time.Hour).Format(time.RFC3339), "total_seats": 10, "price": 1, "type": "cruise"},
			field: "Type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, app, http.MethodPost, "/api/admin/shows", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Status)
			assert.Contains(t, env.Errors, tc.field)
		})
	}
}

func TestCreateShowRejectsUnknownFields(t *testing.T) {
	app := newOfflineApp(t)

	rec, env := doRequest(t, app, http.MethodPost, "/api/admin/shows", map[string]any{"name": "A", "hall": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestShowLifecycleOffline(t *testing.T) {
	app := newOfflineApp(t)

	showID := createShow(t, app, "Matinee", "show", 10, 12.5)
	createShow(t, app, "Coast", "trip", 4, 40)

	rec, env := doRequest(t, app, http.MethodGet, "/api/shows?type=trip", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trips []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &trips))
	require.Len(t, trips, 1)
	assert.Equal(t, "Coast", trips[0]["name"])

	rec, _ = doRequest(t, app, http.MethodGet, "/api/shows?type=concert", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doRequest(t, app, http.MethodPost, "/api/bookings", map[string]any{
		"show_id": showID, "user_id": "u1", "seats": []int{2, 3},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	bookingID, _ := created["id"].(string)
	assert.NotEmpty(t, bookingID)
	assert.Equal(t, showID, created["show_id"])
	assert.ElementsMatch(t, []any{2.0, 3.0}, created["seats"])

	rec, env = doRequest(t, app, http.MethodGet, "/api/shows/"+showID+"/seats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var seatMap struct {
		BookedSeats    []int `json:"booked_seats"`
		AvailableSeats []int `json:"available_seats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &seatMap))
	assert.ElementsMatch(t, []int{2, 3}, seatMap.BookedSeats)
	assert.Len(t, seatMap.AvailableSeats, 8)

	rec, env = doRequest(t, app, http.MethodPost, "/api/bookings", map[string]any{
		"show_id": showID, "user_id": "u2", "seats": []int{3, 4},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Seats 3 are already booked", env.Message)

	rec, env = doRequest(t, app, http.MethodGet, "/api/users/u1/bookings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bookings []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, bookingID, bookings[0]["id"])
	assert.Equal(t, 25.0, bookings[0]["total_amount"])
	assert.Equal(t, "confirmed", bookings[0]["status"])

	rec, env = doRequest(t, app, http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats["shows"])
	assert.EqualValues(t, 1, stats["trips"])
	assert.EqualValues(t, 1, stats["confirmed_bookings"])
	assert.EqualValues(t, 25, stats["revenue"])

	rec, env = doRequest(t, app, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.EqualValues(t, 3, status["pending_sync"])
}

func TestBookingErrors(t *testing.T) {
	app := newOfflineApp(t)
	showID := createShow(t, app, "Matinee", "show", 5, 10)

	rec, _ := doRequest(t, app, http.MethodPost, "/api/bookings", map[string]any{
		"show_id": showID, "user_id": "u1", "seats": []int{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := doRequest(t, app, http.MethodPost, "/api/bookings", map[string]any{
		"show_id": "missing", "user_id": "u1", "seats": []int{1},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Show not found", env.Message)

	rec, _ = doRequest(t, app, http.MethodPost, "/api/bookings", map[string]any{
		"show_id": showID, "user_id": "u1", "seats": []int{6},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, app, http.MethodGet, "/api/shows/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = doRequest(t, app, http.MethodGet, "/api/shows/missing/bookings", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestStateEndpoints(t *testing.T) {
	app := newOfflineApp(t)

	rec, env := doRequest(t, app, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, true, state["initialized"])
	require.Contains(t, state, "error")
	assert.Equal(t, "API not available. Data will be stored locally.", state["error"].(map[string]any)["message"])

	rec, env = doRequest(t, app, http.MethodDelete, "/api/state/error", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state = map[string]any{}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.NotContains(t, state, "error")

	rec, env = doRequest(t, app, http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state = map[string]any{}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, "Failed to refresh data from server", state["error"].(map[string]any)["message"])
	assert.Equal(t, false, state["loading"])
}
