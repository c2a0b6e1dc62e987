package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/yair/eventify/pkg/domain"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type EventHandler struct {
	service domain.EventService
	logger  *zap.Logger
	metrics *Metrics
}

// NewEventHandler wires the handler. logger and metrics may be nil.
func NewEventHandler(service domain.EventService, logger *zap.Logger, metrics *Metrics) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EventHandler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *EventHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/events", h.ListEvents).Methods("GET")
	router.HandleFunc("/api/events", h.CreateEvent).Methods("POST")
	router.HandleFunc("/api/events/unified", h.ListUnifiedEvents).Methods("GET")
	router.HandleFunc("/api/events/{id:[0-9]+}", h.GetEvent).Methods("GET")
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	events, err := h.service.ListEvents(ctx, ParseFilterState(r.URL.Query()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.metrics.ObserveListed(len(events))
	h.respondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) ListUnifiedEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	events, err := h.service.ListDisplayEvents(ctx, ParseFilterState(r.URL.Query()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.metrics.ObserveListed(len(events))
	h.respondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.handleError(w, r, domain.ErrEventNotFound)
		return
	}

	event, err := h.service.GetEvent(ctx, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input domain.NewEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be a JSON event",
		})
		return
	}

	event, err := h.service.CreateEvent(ctx, &input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respondWithError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
			Field:   verr.Field,
		})
	case errors.Is(err, domain.ErrEventNotFound):
		h.respondWithError(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Event not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		h.respondWithError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateEvent):
		h.respondWithError(w, http.StatusConflict, ErrorResponse{Error: "conflict", Message: "event already exists"})
	default:
		h.logger.Error("request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "internal server error"})
	}
}

func (h *EventHandler) respondWithError(w http.ResponseWriter, code int, body ErrorResponse) {
	h.respondWithJSON(w, code, body)
}

func (h *EventHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal_error","message":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// ParseFilterState reads facet selections from a query string. List facets
// accept comma-joined values and repeated parameters; empty segments are
// dropped. Price bounds that do not parse as numbers are ignored.
func ParseFilterState(q url.Values) *domain.FilterState {
	return &domain.FilterState{
		Search:        q.Get("search"),
		Context:       parseList(q["context"]),
		TimeOfDay:     parseList(q["timeOfDay"]),
		Style:         parseList(q["style"]),
		Districts:     parseList(q["districts"]),
		PriceCategory: parseList(q["priceCategory"]),
		Features:      parseList(q["features"]),
		MinPrice:      parseBound(q.Get("minPrice"), math.Ceil),
		MaxPrice:      parseBound(q.Get("maxPrice"), math.Floor),
	}
}

func parseList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseBound converts a price bound to an integer bound that selects the
// same integer prices; round is math.Floor for upper bounds and math.Ceil
// for lower ones.
func parseBound(raw string, round func(float64) float64) *int {
	if raw == "" {
		return nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	f = math.Max(math.MinInt32, math.Min(math.MaxInt32, round(f)))
	v := int(f)
	return &v
}
