// Package integrations talks to a running eventify server over its HTTP API.
package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yair/eventify/pkg/domain"
)

type EventifyClient struct {
	baseURL    string
	httpClient *http.Client
}

type EventifyConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewEventifyClient(config EventifyConfig) (*EventifyClient, error) {
	base := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("eventify base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid eventify base URL: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EventifyClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

// ListEvents fetches GET /api/events for state.
func (c *EventifyClient) ListEvents(ctx context.Context, state *domain.FilterState) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.get(ctx, "/api/events", EncodeFilterState(state), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListUnifiedEvents fetches GET /api/events/unified for state.
func (c *EventifyClient) ListUnifiedEvents(ctx context.Context, state *domain.FilterState) ([]domain.DisplayEvent, error) {
	var events []domain.DisplayEvent
	if err := c.get(ctx, "/api/events/unified", EncodeFilterState(state), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *EventifyClient) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	var event domain.Event
	if err := c.get(ctx, "/api/events/"+strconv.FormatInt(id, 10), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *EventifyClient) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call eventify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrEventNotFound
	case resp.StatusCode == http.StatusBadRequest && body.Error == "validation_error":
		return domain.ValidationError{Field: body.Field, Message: body.Message}
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, body.Message)
	default:
		return fmt.Errorf("eventify request failed: status %d", resp.StatusCode)
	}
}

// EncodeFilterState renders state as the query parameters the server
// parses. List facets are comma-joined.
func EncodeFilterState(state *domain.FilterState) url.Values {
	q := url.Values{}
	if state == nil {
		return q
	}

	if state.Search != "" {
		q.Set("search", state.Search)
	}
	setList(q, "context", state.Context)
	setList(q, "timeOfDay", state.TimeOfDay)
	setList(q, "style", state.Style)
	setList(q, "districts", state.Districts)
	setList(q, "priceCategory", state.PriceCategory)
	setList(q, "features", state.Features)
	if state.MinPrice != nil {
		q.Set("minPrice", strconv.Itoa(*state.MinPrice))
	}
	if state.MaxPrice != nil {
		q.Set("maxPrice", strconv.Itoa(*state.MaxPrice))
	}
	return q
}

func setList(q url.Values, key string, values []string) {
	if len(values) > 0 {
		q.Set(key, strings.Join(values, ","))
	}
}
