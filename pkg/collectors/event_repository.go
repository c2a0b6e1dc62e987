package collectors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yair/eventify/pkg/domain"
)

var errNilEvent = errors.New("event cannot be nil")

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) (*EventRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	repo := &EventRepository{db: db}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

func (r *EventRepository) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_key TEXT,
		title TEXT NOT NULL,
		long_description TEXT NOT NULL,
		main_category TEXT NOT NULL,
		secondary_category TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		date_start TEXT NOT NULL DEFAULT '',
		date_end TEXT NOT NULL DEFAULT '',
		time_start TEXT NOT NULL DEFAULT '',
		time_end TEXT NOT NULL DEFAULT '',
		location_exact TEXT NOT NULL,
		district TEXT NOT NULL,
		neighborhood TEXT NOT NULL DEFAULT '',
		lat REAL,
		lng REAL,
		price_base INTEGER NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'EUR',
		price_range TEXT NOT NULL DEFAULT '',
		includes TEXT,
		duration_hours REAL,
		ideal_group TEXT NOT NULL DEFAULT '',
		min_group INTEGER,
		max_group INTEGER,
		min_age INTEGER,
		vibe TEXT NOT NULL DEFAULT '',
		intensity TEXT NOT NULL DEFAULT '',
		indoor_outdoor TEXT NOT NULL DEFAULT '',
		pet_friendly INTEGER NOT NULL DEFAULT 0,
		accessible INTEGER NOT NULL DEFAULT 0,
		parking INTEGER NOT NULL DEFAULT 0,
		requires_reservation INTEGER NOT NULL DEFAULT 0,
		metro_nearby TEXT,
		images TEXT,
		rating REAL,
		total_reviews INTEGER NOT NULL DEFAULT 0,
		reviews TEXT,
		organizer TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT '',
		contact_email TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		total_spots INTEGER,
		available_spots INTEGER,
		is_trending INTEGER NOT NULL DEFAULT 0,
		trending_score INTEGER NOT NULL DEFAULT 0,
		save_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_events_seed_key ON events(seed_key);
	CREATE INDEX IF NOT EXISTS idx_events_title ON events(title);
	CREATE INDEX IF NOT EXISTS idx_events_district ON events(district);
	CREATE INDEX IF NOT EXISTS idx_events_price_base ON events(price_base);
	`

	_, err := r.db.Exec(query)
	return err
}

// insertColumns are written by Create and CreateBatch in this order; see
// insertArgs.
var insertColumns = []string{
	"seed_key", "title", "long_description", "main_category", "secondary_category", "tags",
	"date_start", "date_end", "time_start", "time_end",
	"location_exact", "district", "neighborhood", "lat", "lng",
	"price_base", "currency", "price_range", "includes", "duration_hours",
	"ideal_group", "min_group", "max_group", "min_age",
	"vibe", "intensity", "indoor_outdoor",
	"pet_friendly", "accessible", "parking", "requires_reservation",
	"metro_nearby", "images", "rating", "total_reviews", "reviews",
	"organizer", "contact_phone", "contact_email", "website",
	"total_spots", "available_spots", "is_trending", "trending_score", "save_count",
	"created_at",
}

var (
	insertQuery = fmt.Sprintf("INSERT INTO events (%s) VALUES (%s)",
		strings.Join(insertColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(insertColumns)), ", "))

	selectQuery = fmt.Sprintf("SELECT id, %s FROM events", strings.Join(insertColumns, ", "))
)

func (r *EventRepository) Create(ctx context.Context, event *domain.NewEvent) (*domain.Event, error) {
	if event == nil {
		return nil, errNilEvent
	}

	stored := domain.Event{NewEvent: *event, CreatedAt: time.Now().UTC()}
	args, err := insertArgs(&stored)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, insertQuery, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, domain.ErrDuplicateEvent
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	stored.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return &stored, nil
}

// CreateBatch inserts events in one transaction. Events whose seed key is
// already stored are skipped; the number of inserted rows is returned.
func (r *EventRepository) CreateBatch(ctx context.Context, events []domain.NewEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertQuery+" ON CONFLICT(seed_key) DO NOTHING")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0
	for i := range events {
		args, err := insertArgs(&domain.Event{NewEvent: events[i], CreatedAt: now})
		if err != nil {
			return 0, err
		}

		result, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert event: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := scanEvent(r.db.QueryRowContext(ctx, selectQuery+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}

	return event, nil
}

// List returns the events matching cond in ascending id order. A nil
// condition returns every event.
func (r *EventRepository) List(ctx context.Context, cond domain.Condition) ([]domain.Event, error) {
	query := selectQuery
	var args []any

	if cond != nil {
		where, whereArgs := cond.SQL()
		if where != "" {
			query += " WHERE " + where
			args = whereArgs
		}
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func insertArgs(e *domain.Event) ([]any, error) {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	var encoded [5]string
	for i, v := range []any{tags, e.Includes, e.MetroNearby, e.Images, e.Reviews} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event: %w", err)
		}
		encoded[i] = string(b)
	}

	return []any{
		sql.NullString{String: e.SeedKey, Valid: e.SeedKey != ""},
		e.Title, e.LongDescription, e.MainCategory, e.SecondaryCategory, encoded[0],
		e.DateStart, e.DateEnd, e.TimeStart, e.TimeEnd,
		e.LocationExact, e.District, e.Neighborhood, e.Lat, e.Lng,
		e.PriceBase, e.Currency, e.PriceRange, encoded[1], e.DurationHours,
		e.IdealGroup, e.MinGroup, e.MaxGroup, e.MinAge,
		e.Vibe, e.Intensity, e.IndoorOutdoor,
		e.PetFriendly, e.Accessible, e.Parking, e.ReservationRequired,
		encoded[2], encoded[3], e.Rating, e.TotalReviews, encoded[4],
		e.Organizer, e.ContactPhone, e.ContactEmail, e.Website,
		e.TotalSpots, e.AvailableSpots, e.IsTrending, e.TrendingScore, e.SaveCount,
		e.CreatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var event domain.Event
	var seedKey, tags, includes, metro, images, reviews sql.NullString

	err := row.Scan(
		&event.ID,
		&seedKey,
		&event.Title, &event.LongDescription, &event.MainCategory, &event.SecondaryCategory, &tags,
		&event.DateStart, &event.DateEnd, &event.TimeStart, &event.TimeEnd,
		&event.LocationExact, &event.District, &event.Neighborhood, &event.Lat, &event.Lng,
		&event.PriceBase, &event.Currency, &event.PriceRange, &includes, &event.DurationHours,
		&event.IdealGroup, &event.MinGroup, &event.MaxGroup, &event.MinAge,
		&event.Vibe, &event.Intensity, &event.IndoorOutdoor,
		&event.PetFriendly, &event.Accessible, &event.Parking, &event.ReservationRequired,
		&metro, &images, &event.Rating, &event.TotalReviews, &reviews,
		&event.Organizer, &event.ContactPhone, &event.ContactEmail, &event.Website,
		&event.TotalSpots, &event.AvailableSpots, &event.IsTrending, &event.TrendingScore, &event.SaveCount,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.SeedKey = seedKey.String

	columns := []struct {
		raw  sql.NullString
		dest any
	}{
		{tags, &event.Tags},
		{includes, &event.Includes},
		{metro, &event.MetroNearby},
		{images, &event.Images},
		{reviews, &event.Reviews},
	}
	for _, c := range columns {
		if !c.raw.Valid || c.raw.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(c.raw.String), c.dest); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", event.ID, err)
		}
	}
	if event.Tags == nil {
		event.Tags = []string{}
	}

	return &event, nil
}
