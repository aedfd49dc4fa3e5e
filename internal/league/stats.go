package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/database"
)

const statColumns = `id, player_id, event_id, points, wins, losses, bullseyes, triples, created_at`

func (v StatValues) validate() error {
	fields := []struct {
		name  string
		value *int
	}{
		{"points", v.Points},
		{"wins", v.Wins},
		{"losses", v.Losses},
		{"bullseyes", v.Bullseyes},
		{"triples", v.Triples},
	}
	for _, f := range fields {
		if f.value != nil && *f.value < 0 {
			return invalid(f.name, "must not be negative")
		}
	}
	return nil
}

func (v StatValues) empty() bool {
	return v.Points == nil && v.Wins == nil && v.Losses == nil && v.Bullseyes == nil && v.Triples == nil
}

func (v StatValues) args() []any {
	return []any{v.Points, v.Wins, v.Losses, v.Bullseyes, v.Triples}
}

func scanStat(scanner interface{ Scan(...any) error }) (*Stat, error) {
	var st Stat
	var createdAt int64
	err := scanner.Scan(
		&st.ID, &st.PlayerID, &st.EventID,
		&st.Points, &st.Wins, &st.Losses, &st.Bullseyes, &st.Triples,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	st.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &st, nil
}

// UpsertStat records a player's results for an event. The insert relies on
// the UNIQUE(player_id, event_id) constraint, so concurrent writers for the
// same pair never produce two rows; when the row already exists only the
// provided metrics are overwritten.
func (s *store) UpsertStat(ctx context.Context, in StatInput) (*Stat, bool, error) {
	if in.PlayerID <= 0 || in.EventID <= 0 {
		return nil, false, invalid("", "Player ID and Event ID are required")
	}
	if err := in.StatValues.validate(); err != nil {
		return nil, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	args := []any{in.PlayerID, in.EventID}
	args = append(args, in.StatValues.args()...)
	args = append(args, s.now().Unix())
	created := true
	st, err := scanStat(tx.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO stats (player_id, event_id, points, wins, losses, bullseyes, triples, created_at)
		VALUES (?, ?, COALESCE(?, 0), COALESCE(?, 0), COALESCE(?, 0), COALESCE(?, 0), COALESCE(?, 0), ?)
		ON CONFLICT (player_id, event_id) DO NOTHING
		RETURNING `+statColumns), args...))
	if errors.Is(err, sql.ErrNoRows) {
		created = false
		args = append(in.StatValues.args(), in.PlayerID, in.EventID)
		st, err = scanStat(tx.QueryRowContext(ctx, s.db.Rebind(`
			UPDATE stats SET
				points = COALESCE(?, points),
				wins = COALESCE(?, wins),
				losses = COALESCE(?, losses),
				bullseyes = COALESCE(?, bullseyes),
				triples = COALESCE(?, triples)
			WHERE player_id = ? AND event_id = ?
			RETURNING `+statColumns), args...))
	}
	if err != nil {
		if database.IsForeignKeyViolation(err) || errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("player %d or event %d: %w", in.PlayerID, in.EventID, ErrNotFound)
		}
		log.Error("Failed to upsert stat", "error", err, "playerID", in.PlayerID, "eventID", in.EventID)
		return nil, false, fmt.Errorf("failed to upsert stat: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit stat: %w", err)
	}

	log.Info("Upserted stat", "statID", st.ID, "playerID", st.PlayerID, "eventID", st.EventID, "created", created)
	return st, created, nil
}

// UpdateStat overwrites the provided metrics of an existing stat row.
func (s *store) UpdateStat(ctx context.Context, id int64, values StatValues) (*Stat, error) {
	if err := values.validate(); err != nil {
		return nil, err
	}
	if values.empty() {
		return s.GetStat(ctx, id)
	}

	args := append(values.args(), id)
	row := s.queryRow(ctx, `
		UPDATE stats SET
			points = COALESCE(?, points),
			wins = COALESCE(?, wins),
			losses = COALESCE(?, losses),
			bullseyes = COALESCE(?, bullseyes),
			triples = COALESCE(?, triples)
		WHERE id = ?
		RETURNING `+statColumns,
		args...,
	)
	st, err := scanStat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("stat", id)
		}
		log.Error("Failed to update stat", "error", err, "statID", id)
		return nil, fmt.Errorf("failed to update stat %d: %w", id, err)
	}
	return st, nil
}

func (s *store) GetStat(ctx context.Context, id int64) (*Stat, error) {
	st, err := scanStat(s.queryRow(ctx, `SELECT `+statColumns+` FROM stats WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("stat", id)
		}
		return nil, fmt.Errorf("failed to get stat %d: %w", id, err)
	}
	return st, nil
}

func (s *store) ListStats(ctx context.Context, eventID *int64) ([]Stat, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if eventID != nil {
		rows, err = s.query(ctx, `SELECT `+statColumns+` FROM stats WHERE event_id = ? ORDER BY id`, *eventID)
	} else {
		rows, err = s.query(ctx, `SELECT `+statColumns+` FROM stats ORDER BY id`)
	}
	if err != nil {
		log.Error("Failed to query stats", "error", err)
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}
	defer rows.Close()

	stats := []Stat{}
	for rows.Next() {
		st, err := scanStat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stat: %w", err)
		}
		stats = append(stats, *st)
	}
	return stats, rows.Err()
}

func (s *store) DeleteStat(ctx context.Context, id int64) error {
	n, err := s.execAffected(ctx, `DELETE FROM stats WHERE id = ?`, id)
	if err != nil {
		log.Error("Failed to delete stat", "error", err, "statID", id)
		return fmt.Errorf("failed to delete stat %d: %w", id, err)
	}
	if n == 0 {
		return notFound("stat", id)
	}
	return nil
}

// ResetStats deletes every recorded result, keeping players and events.
func (s *store) ResetStats(ctx context.Context) (int64, error) {
	n, err := s.execAffected(ctx, `DELETE FROM stats`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stats: %w", err)
	}
	log.Info("Deleted all stats", "count", n)
	return n, nil
}
