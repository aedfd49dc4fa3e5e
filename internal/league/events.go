package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
)

const eventColumns = `id, type, date, season, description, created_at`

// ParseEventDate accepts a plain calendar date ("2026-01-16") or an RFC 3339
// timestamp. Timestamps keep the calendar day of their own offset, so a
// date never shifts with the server's time zone.
func ParseEventDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, invalid("date", "Date is required")
	}
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t), nil
	}
	return civil.Date{}, invalid("date", fmt.Sprintf("%q is not a valid date", s))
}

func (in EventInput) validate() (EventInput, error) {
	in.Season = strings.TrimSpace(in.Season)
	if in.Type == "" || !in.Date.IsValid() || in.Season == "" {
		return in, invalid("", "Type, date, and season are required")
	}
	if !in.Type.Valid() {
		return in, invalid("type", fmt.Sprintf("unknown event type %q", in.Type))
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		in.Description = nil
	}
	return in, nil
}

func scanEvent(scanner interface{ Scan(...any) error }) (*Event, error) {
	var e Event
	var eventType, date string
	var description sql.NullString
	var createdAt int64
	if err := scanner.Scan(&e.ID, &eventType, &date, &e.Season, &description, &createdAt); err != nil {
		return nil, err
	}
	d, err := civil.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("event %d has malformed date %q: %w", e.ID, date, err)
	}
	e.Type = EventType(eventType)
	e.Date = d
	if description.Valid {
		e.Description = &description.String
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	defer rows.Close()
	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *store) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	row := s.queryRow(ctx, `
		INSERT INTO events (type, date, season, description, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		string(in.Type), in.Date.String(), in.Season, in.Description, s.now().Unix(),
	)
	e, err := scanEvent(row)
	if err != nil {
		log.Error("Failed to create event", "error", err, "season", in.Season)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	log.Info("Created event", "eventID", e.ID, "type", e.Type, "date", e.Date, "season", e.Season)
	return e, nil
}

func (s *store) GetEvent(ctx context.Context, id int64) (*Event, error) {
	e, err := scanEvent(s.queryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("event", id)
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return e, nil
}

func (s *store) ListEvents(ctx context.Context, order Order) ([]Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events ORDER BY date, id`
	if order == OrderDesc {
		q = `SELECT ` + eventColumns + ` FROM events ORDER BY date DESC, id DESC`
	}
	rows, err := s.query(ctx, q)
	if err != nil {
		log.Error("Failed to query all events", "error", err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return scanEvents(rows)
}

func (s *store) ListEventsBySeason(ctx context.Context, season string) ([]Event, error) {
	rows, err := s.query(ctx, `SELECT `+eventColumns+` FROM events WHERE season = ? ORDER BY date, id`, season)
	if err != nil {
		log.Error("Failed to query events by season", "error", err, "season", season)
		return nil, fmt.Errorf("failed to list events for season %q: %w", season, err)
	}
	return scanEvents(rows)
}

// UpdateEvent replaces every writable field of the event.
func (s *store) UpdateEvent(ctx context.Context, id int64, in EventInput) (*Event, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	row := s.queryRow(ctx, `
		UPDATE events SET type = ?, date = ?, season = ?, description = ?
		WHERE id = ?
		RETURNING `+eventColumns,
		string(in.Type), in.Date.String(), in.Season, in.Description, id,
	)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("event", id)
		}
		log.Error("Failed to update event", "error", err, "eventID", id)
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	log.Info("Updated event", "eventID", id)
	return e, nil
}

// DeleteEvent removes the event together with its stats.
func (s *store) DeleteEvent(ctx context.Context, id int64) error {
	n, err := s.execAffected(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		log.Error("Failed to delete event", "error", err, "eventID", id)
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	if n == 0 {
		return notFound("event", id)
	}
	log.Info("Deleted event", "eventID", id)
	return nil
}

// Seasons returns the distinct season labels, latest (lexicographically
// greatest) first.
func (s *store) Seasons(ctx context.Context) ([]string, error) {
	rows, err := s.query(ctx, `SELECT DISTINCT season FROM events ORDER BY season DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()

	seasons := []string{}
	for rows.Next() {
		var season string
		if err := rows.Scan(&season); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// CurrentSeason is the latest season label, or fallback when no event exists.
func (s *store) CurrentSeason(ctx context.Context, fallback string) (string, error) {
	var season string
	err := s.queryRow(ctx, `SELECT season FROM events ORDER BY season DESC LIMIT 1`).Scan(&season)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get current season: %w", err)
	}
	return season, nil
}

// NextEvent is the earliest event on or after today; an event held today
// still counts as upcoming.
func (s *store) NextEvent(ctx context.Context, today civil.Date) (*Event, error) {
	e, err := scanEvent(s.queryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE date >= ? ORDER BY date, id LIMIT 1`,
		today.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next event: %w", err)
	}
	return e, nil
}

// LastEvent is the latest event strictly before today.
func (s *store) LastEvent(ctx context.Context, today civil.Date) (*Event, error) {
	e, err := scanEvent(s.queryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE date < ? ORDER BY date DESC, id DESC LIMIT 1`,
		today.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last event: %w", err)
	}
	return e, nil
}

// CompletedEventIDs returns the ids of events that have recorded results.
func (s *store) CompletedEventIDs(ctx context.Context) (map[int64]bool, error) {
	rows, err := s.query(ctx, `SELECT DISTINCT event_id FROM stats`)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed events: %w", err)
	}
	defer rows.Close()

	completed := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		completed[id] = true
	}
	return completed, rows.Err()
}

// SetSeasonForAll relabels every event with the given season.
func (s *store) SetSeasonForAll(ctx context.Context, season string) (int64, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		return 0, invalid("season", "Season is required")
	}
	n, err := s.execAffected(ctx, `UPDATE events SET season = ?`, season)
	if err != nil {
		return 0, fmt.Errorf("failed to update seasons: %w", err)
	}
	log.Info("Updated season on all events", "season", season, "events", n)
	return n, nil
}
