package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	bookingRepo "appointly/database/repository/booking"
	"appointly/middleware"
	"appointly/models"
	"appointly/services/booking"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

func newRouter(t *testing.T, store bookingRepo.BookingStore) *gin.Engine {
	t.Helper()
	slots, err := booking.NewSlotBuilder(booking.DefaultRules(), 10, 18, 20, 20)
	if err != nil {
		t.Fatalf("NewSlotBuilder: %v", err)
	}
	svc := booking.NewBookingService(booking.NewAvailabilityResolver(slots, store), nil, true)
	hb := NewHandlerBundle(NewBookingHandler(svc, zap.NewNop()))

	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.GET("/slots", hb.GetSlots)
	r.POST("/book", hb.Book)
	r.GET("/bookings", hb.ListBookings)
	r.DELETE("/bookings/:id", hb.CancelBooking)
	r.GET("/health", hb.Health)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		json.NewEncoder(&buf).Encode(v)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not json: %s", w.Body.String())
	}
	return resp.Error
}

func TestGetSlots(t *testing.T) {
	r := newRouter(t, bookingRepo.NewMemoryStore())

	w := do(r, http.MethodGet, "/slots?date=2024-06-10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var slots []map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(slots) != 24 || slots[0]["start"] != "2024-06-10T14:00:00.000Z" || slots[0]["end"] != "2024-06-10T14:20:00.000Z" {
		t.Fatalf("unexpected slots: %v", slots)
	}

	w = do(r, http.MethodGet, "/slots?date=2024-06-15", nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("closed day: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/slots", nil)
	if w.Code != http.StatusBadRequest || errorMessage(t, w) != "Date parameter required (YYYY-MM-DD)" {
		t.Fatalf("missing date: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/slots?date=06-10-2024", nil)
	if w.Code != http.StatusBadRequest || errorMessage(t, w) != "Invalid date format. Use YYYY-MM-DD" {
		t.Fatalf("bad date: %d %s", w.Code, w.Body.String())
	}
}

func TestBookingLifecycle(t *testing.T) {
	r := newRouter(t, bookingRepo.NewMemoryStore())
	req := models.BookingRequest{Start: "2024-06-10T14:00:00.000Z", Name: "Ann", Email: "ann@example.com"}

	w := do(r, http.MethodPost, "/book", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Booking map[string]any `json:"booking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.Message != "Booking confirmed" || created.Booking["start"] != req.Start || created.Booking["name"] != "Ann" {
		t.Fatalf("unexpected response %+v", created)
	}
	if _, leaked := created.Booking["email"]; leaked {
		t.Fatalf("booking summary must not expose email")
	}
	id, _ := created.Booking["id"].(string)
	if id == "" {
		t.Fatalf("missing booking id")
	}

	w = do(r, http.MethodPost, "/book", models.BookingRequest{Start: req.Start, Name: "Bob", Email: "bob@example.com"})
	if w.Code != http.StatusConflict || errorMessage(t, w) != "This time slot is no longer available" {
		t.Fatalf("double booking: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/bookings", nil)
	var list []models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode bookings: %v", err)
	}
	if w.Code != http.StatusOK || len(list) != 1 || list[0].ID != id || list[0].Email != "ann@example.com" {
		t.Fatalf("list: %d %+v", w.Code, list)
	}

	w = do(r, http.MethodDelete, "/bookings/"+id, nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"message":"Booking cancelled","success":true}` {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodDelete, "/bookings/"+id, nil)
	if w.Code != http.StatusNotFound || errorMessage(t, w) != "Booking not found" {
		t.Fatalf("second cancel: %d %s", w.Code, w.Body.String())
	}
}

func TestBookValidationResponses(t *testing.T) {
	r := newRouter(t, bookingRepo.NewMemoryStore())
	cases := []struct {
		body any
		want string
	}{
		{models.BookingRequest{Name: "Ann", Email: "ann@example.com"}, "Missing required fields: start, name, email"},
		{models.BookingRequest{Start: "2024-06-10T14:00:00.000Z", Name: "Ann", Email: "ann"}, "Invalid email format"},
		{`{"start":`, "Invalid request body"},
	}
	for _, c := range cases {
		w := do(r, http.MethodPost, "/book", c.body)
		if w.Code != http.StatusBadRequest || errorMessage(t, w) != c.want {
			t.Fatalf("%v: %d %s", c.body, w.Code, w.Body.String())
		}
	}
}

type brokenStore struct{}

func (brokenStore) List(ctx context.Context) ([]models.Booking, error) {
	return nil, errors.New("disk unavailable")
}
func (brokenStore) Append(ctx context.Context, b models.Booking) error { return errors.New("disk unavailable") }
func (brokenStore) Remove(ctx context.Context, id string) error { return errors.New("disk unavailable") }

func TestPersistenceFailureIs500(t *testing.T) {
	r := newRouter(t, brokenStore{})
	w := do(r, http.MethodPost, "/book", models.BookingRequest{Start: "2024-06-10T14:00:00.000Z", Name: "Ann", Email: "ann@example.com"})
	if w.Code != http.StatusInternalServerError || errorMessage(t, w) != "Internal server error" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestFailureLogCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	slots, err := booking.NewSlotBuilder(booking.DefaultRules(), 10, 18, 20, 20)
	if err != nil {
		t.Fatalf("NewSlotBuilder: %v", err)
	}
	svc := booking.NewBookingService(booking.NewAvailabilityResolver(slots, brokenStore{}), nil, true)
	h := NewBookingHandler(svc, zap.NewNop())

	r := gin.New()
	r.Use(middleware.RequestLogger(zap.New(core)))
	r.GET("/bookings", h.ListBookings)

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", w.Code)
	}

	failures := logs.FilterMessage("ListBookings: request failed").All()
	if len(failures) != 1 {
		t.Fatalf("expected one failure log, got %d", len(failures))
	}
	if got := failures[0].ContextMap()["requestID"]; got != "req-42" {
		t.Fatalf("failure log requestID = %v", got)
	}
}

func TestHealth(t *testing.T) {
	r := newRouter(t, bookingRepo.NewMemoryStore())
	w := do(r, http.MethodGet, "/health", nil)
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || w.Code != http.StatusOK {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
	if body["status"] != "ok" || body["timestamp"] == "" {
		t.Fatalf("unexpected health body %v", body)
	}
}
