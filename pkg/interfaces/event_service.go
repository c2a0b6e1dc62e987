package interfaces

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yair/eventify/pkg/aggregate"
	"github.com/yair/eventify/pkg/domain"
	"github.com/yair/eventify/pkg/filters"
)

type EventService struct {
	repository domain.EventRepository
	options    filters.Options
	logger     *zap.Logger
}

func NewEventService(repository domain.EventRepository, options filters.Options, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EventService{
		repository: repository,
		options:    options,
		logger:     logger,
	}
}

// ListEvents returns every stored event matching the filter state. An empty
// or nil state applies no constraint.
func (s *EventService) ListEvents(ctx context.Context, state *domain.FilterState) ([]domain.Event, error) {
	node := filters.Build(state, s.options)

	var cond domain.Condition
	if node != nil {
		cond = node
	}

	s.logger.Debug("listing events", zap.Stringer("filter", node))

	events, err := s.repository.List(ctx, cond)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// ListDisplayEvents lists matching events, narrows them by the style and
// context tags and merges events sharing a title.
func (s *EventService) ListDisplayEvents(ctx context.Context, state *domain.FilterState) ([]domain.DisplayEvent, error) {
	events, err := s.ListEvents(ctx, state)
	if err != nil {
		return nil, err
	}

	if narrowing := filters.BuildNarrowing(state); narrowing != nil {
		kept := events[:0:0]
		for i := range events {
			if narrowing.Matches(&events[i]) {
				kept = append(kept, events[i])
			}
		}
		events = kept
	}

	return aggregate.Unify(events), nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	if id <= 0 {
		return nil, domain.ErrEventNotFound
	}

	event, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}

	return event, nil
}

// CreateEvent validates input, fills the derived defaults and stores it.
func (s *EventService) CreateEvent(ctx context.Context, input *domain.NewEvent) (*domain.Event, error) {
	event, err := prepare(input)
	if err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("event created", zap.Int64("id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// SeedEvents stores a fixture batch. Events whose seed key is already
// stored are skipped, so repeated calls are safe. It returns the number of
// events inserted.
func (s *EventService) SeedEvents(ctx context.Context, events []domain.NewEvent) (int, error) {
	prepared := make([]domain.NewEvent, 0, len(events))
	for i := range events {
		event, err := prepare(&events[i])
		if err != nil {
			return 0, fmt.Errorf("seed event %d: %w", i, err)
		}
		prepared = append(prepared, *event)
	}

	inserted, err := s.repository.CreateBatch(ctx, prepared)
	if err != nil {
		return 0, fmt.Errorf("failed to seed events: %w", err)
	}

	s.logger.Info("seeded events",
		zap.Int("inserted", inserted),
		zap.Int("skipped", len(prepared)-inserted))

	return inserted, nil
}

func (s *EventService) CountEvents(ctx context.Context) (int, error) {
	count, err := s.repository.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func prepare(input *domain.NewEvent) (*domain.NewEvent, error) {
	if input == nil {
		return nil, domain.ValidationError{Field: "body", Message: "event is required"}
	}

	event := *input
	event.ApplyDefaults()
	if err := event.Validate(); err != nil {
		return nil, err
	}

	return &event, nil
}
