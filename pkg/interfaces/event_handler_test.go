package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"

	"github.com/yair/eventify/pkg/domain"
)

type mockEventService struct {
	listFunc    func(ctx context.Context, state *domain.FilterState) ([]domain.Event, error)
	displayFunc func(ctx context.Context, state *domain.FilterState) ([]domain.DisplayEvent, error)
	getFunc     func(ctx context.Context, id int64) (*domain.Event, error)
	createFunc  func(ctx context.Context, event *domain.NewEvent) (*domain.Event, error)
}

func (m *mockEventService) ListEvents(ctx context.Context, state *domain.FilterState) ([]domain.Event, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, state)
	}
	return []domain.Event{}, nil
}

func (m *mockEventService) ListDisplayEvents(ctx context.Context, state *domain.FilterState) ([]domain.DisplayEvent, error) {
	if m.displayFunc != nil {
		return m.displayFunc(ctx, state)
	}
	return []domain.DisplayEvent{}, nil
}

func (m *mockEventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrEventNotFound
}

func (m *mockEventService) CreateEvent(ctx context.Context, event *domain.NewEvent) (*domain.Event, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	return nil, nil
}

func newTestRouter(service domain.EventService) *mux.Router {
	handler := NewEventHandler(service, nil, nil)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestEventHandler_ListEvents(t *testing.T) {
	t.Run("successful listing", func(t *testing.T) {
		var got *domain.FilterState
		service := &mockEventService{
			listFunc: func(ctx context.Context, state *domain.FilterState) ([]domain.Event, error) {
				got = state
				return []domain.Event{{ID: 1, NewEvent: domain.NewEvent{Title: "Karaoke Night 2"}}}, nil
			},
		}

		req := httptest.NewRequest("GET", "/api/events?style=fiesta,relax&districts=Centro&maxPrice=50&search=karaoke", nil)
		rr := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}

		var events []domain.Event
		if err := json.NewDecoder(rr.Body).Decode(&events); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(events) != 1 || events[0].Title != "Karaoke Night 2" {
			t.Errorf("unexpected events %+v", events)
		}

		if got.Search != "karaoke" {
			t.Errorf("expected search karaoke, got %q", got.Search)
		}
		if len(got.Style) != 2 || got.Style[1] != "relax" {
			t.Errorf("expected two styles, got %v", got.Style)
		}
		if got.MaxPrice == nil || *got.MaxPrice != 50 {
			t.Errorf("expected maxPrice 50, got %v", got.MaxPrice)
		}
		if got.MinPrice != nil {
			t.Errorf("expected no minPrice, got %v", *got.MinPrice)
		}
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events", nil)
		rr := httptest.NewRecorder()
		newTestRouter(&mockEventService{}).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if body := rr.Body.String(); body != "[]" {
			t.Errorf("expected [], got %s", body)
		}
	})

	t.Run("service error", func(t *testing.T) {
		service := &mockEventService{
			listFunc: func(ctx context.Context, state *domain.FilterState) ([]domain.Event, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		req := httptest.NewRequest("GET", "/api/events", nil)
		rr := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rr.Code)
		}
		body := decodeError(t, rr)
		if body.Message != "internal server error" {
			t.Errorf("expected opaque message, got %q", body.Message)
		}
	})
}

func TestEventHandler_ListUnifiedEvents(t *testing.T) {
	service := &mockEventService{
		displayFunc: func(ctx context.Context, state *domain.FilterState) ([]domain.DisplayEvent, error) {
			if len(state.Context) != 1 || state.Context[0] != "amigos" {
				t.Errorf("expected context amigos, got %v", state.Context)
			}
			return []domain.DisplayEvent{{
				Event:        domain.Event{ID: 3, NewEvent: domain.NewEvent{Title: "Ruta de Tapas 3", District: "Lavapiés, La Latina"}},
				AllDistricts: []string{"Lavapiés", "La Latina"},
				AllTimes:     []string{"18:00"},
				AllGroups:    []string{"amigos"},
			}}, nil
		},
	}

	req := httptest.NewRequest("GET", "/api/events/unified?context=amigos", nil)
	rr := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var got []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0]["district"] != "Lavapiés, La Latina" {
		t.Errorf("expected joined district, got %v", got[0]["district"])
	}
	if districts, ok := got[0]["allDistricts"].([]any); !ok || len(districts) != 2 {
		t.Errorf("expected allDistricts with 2 entries, got %v", got[0]["allDistricts"])
	}
}

func TestEventHandler_GetEvent(t *testing.T) {
	t.Run("successful get", func(t *testing.T) {
		service := &mockEventService{
			getFunc: func(ctx context.Context, id int64) (*domain.Event, error) {
				if id != 42 {
					t.Errorf("expected id 42, got %d", id)
				}
				return &domain.Event{ID: 42, NewEvent: domain.NewEvent{Title: "Tour Histórico 5"}}, nil
			},
		}

		req := httptest.NewRequest("GET", "/api/events/42", nil)
		rr := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var event domain.Event
		if err := json.NewDecoder(rr.Body).Decode(&event); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if event.ID != 42 {
			t.Errorf("expected id 42, got %d", event.ID)
		}
	})

	t.Run("event not found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events/7", nil)
		rr := httptest.NewRecorder()
		newTestRouter(&mockEventService{}).ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
		body := decodeError(t, rr)
		if body.Error != "not_found" || body.Message != "Event not found" {
			t.Errorf("unexpected error body %+v", body)
		}
	})

	t.Run("id overflowing int64", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events/99999999999999999999", nil)
		rr := httptest.NewRecorder()
		newTestRouter(&mockEventService{}).ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
	})

	t.Run("non-numeric id does not match", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events/abc", nil)
		rr := httptest.NewRecorder()
		newTestRouter(&mockEventService{}).ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
	})
}

func TestEventHandler_CreateEvent(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		service := &mockEventService{
			createFunc: func(ctx context.Context, event *domain.NewEvent) (*domain.Event, error) {
				if event.SeedKey != "" {
					t.Errorf("seed key must not be settable from JSON, got %q", event.SeedKey)
				}
				return &domain.Event{ID: 101, NewEvent: *event}, nil
			},
		}

		body := `{"title":"Jazz y cena 9","longDescription":"Disfruta.","mainCategory":"Romántico","locationExact":"Calle Mayor, 2","district":"Huertas","priceBase":45,"SeedKey":"pareja-1"}`
		req := httptest.NewRequest("POST", "/api/events", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rr.Code)
		}

		var event domain.Event
		if err := json.NewDecoder(rr.Body).Decode(&event); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if event.ID != 101 || event.Title != "Jazz y cena 9" {
			t.Errorf("unexpected event %+v", event)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		service := &mockEventService{
			createFunc: func(ctx context.Context, event *domain.NewEvent) (*domain.Event, error) {
				return nil, domain.ValidationError{Field: "title", Message: "title is required"}
			},
		}

		req := httptest.NewRequest("POST", "/api/events", bytes.NewBufferString(`{"title":""}`))
		rr := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rr.Code)
		}
		body := decodeError(t, rr)
		if body.Error != "validation_error" || body.Field != "title" {
			t.Errorf("unexpected error body %+v", body)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/events", bytes.NewBufferString(`{"title":`))
		rr := httptest.NewRecorder()
		newTestRouter(&mockEventService{}).ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rr.Code)
		}
		if body := decodeError(t, rr); body.Error != "invalid_request" {
			t.Errorf("expected invalid_request, got %s", body.Error)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		service := &mockEventService{
			createFunc: func(ctx context.Context, event *domain.NewEvent) (*domain.Event, error) {
				return nil, domain.ErrDuplicateEvent
			},
		}

		req := httptest.NewRequest("POST", "/api/events", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()
		newTestRouter(service).ServeHTTP(rr, req)

		if rr.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rr.Code)
		}
	})
}

func TestParseFilterState(t *testing.T) {
	t.Run("lists and repeated parameters", func(t *testing.T) {
		q := url.Values{
			"context":  {"pareja,,amigos", "solo"},
			"features": {"pet_friendly"},
			"style":    {""},
		}
		state := ParseFilterState(q)

		if len(state.Context) != 3 || state.Context[2] != "solo" {
			t.Errorf("expected 3 contexts, got %v", state.Context)
		}
		if len(state.Features) != 1 {
			t.Errorf("expected 1 feature, got %v", state.Features)
		}
		if state.Style != nil {
			t.Errorf("expected no style, got %v", state.Style)
		}
		if !(&domain.FilterState{}).IsEmpty() || state.IsEmpty() {
			t.Error("expected a non-empty state")
		}
	})

	t.Run("price bounds", func(t *testing.T) {
		tests := []struct {
			query string
			min   *int
			max   *int
		}{
			{"maxPrice=50", nil, intPtr(50)},
			{"maxPrice=50.9", nil, intPtr(50)},
			{"minPrice=10.1", intPtr(11), nil},
			{"minPrice=abc&maxPrice=", nil, nil},
			{"maxPrice=NaN", nil, nil},
			{"maxPrice=1e300", nil, intPtr(2147483647)},
		}

		for _, tt := range tests {
			q, _ := url.ParseQuery(tt.query)
			state := ParseFilterState(q)

			if !equalBound(state.MinPrice, tt.min) {
				t.Errorf("%s: expected minPrice %v, got %v", tt.query, tt.min, state.MinPrice)
			}
			if !equalBound(state.MaxPrice, tt.max) {
				t.Errorf("%s: expected maxPrice %v, got %v", tt.query, tt.max, state.MaxPrice)
			}
		}
	})

	t.Run("empty query is an empty state", func(t *testing.T) {
		if !ParseFilterState(url.Values{}).IsEmpty() {
			t.Error("expected empty state")
		}
	})
}

func intPtr(v int) *int { return &v }

func equalBound(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
