package league

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/database"
)

// New creates a new LeagueStore.
func New(db *database.DB) LeagueStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

func (s *store) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.db.Rebind(q), args...)
}

func (s *store) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.db.Rebind(q), args...)
}

func (s *store) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.db.Rebind(q), args...)
}

// execAffected runs a write and reports how many rows it touched.
func (s *store) execAffected(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := s.exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Replace wipes the league and loads the given rows with their ids, in a
// single transaction.
func (s *store) Replace(ctx context.Context, players []Player, events []Event, stats []Stat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stats", "events", "players"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertPlayer := s.db.Rebind(`INSERT INTO players (id, name, photo_url, created_at) VALUES (?, ?, ?, ?)`)
	for _, p := range players {
		if _, err := tx.ExecContext(ctx, insertPlayer, p.ID, p.Name, p.PhotoURL, p.CreatedAt.Unix()); err != nil {
			return fmt.Errorf("failed to restore player %d: %w", p.ID, err)
		}
	}

	insertEvent := s.db.Rebind(`INSERT INTO events (id, type, date, season, description, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	for _, e := range events {
		if _, err := tx.ExecContext(ctx, insertEvent, e.ID, string(e.Type), e.Date.String(), e.Season, e.Description, e.CreatedAt.Unix()); err != nil {
			return fmt.Errorf("failed to restore event %d: %w", e.ID, err)
		}
	}

	insertStat := s.db.Rebind(`
		INSERT INTO stats (id, player_id, event_id, points, wins, losses, bullseyes, triples, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, st := range stats {
		if _, err := tx.ExecContext(ctx, insertStat, st.ID, st.PlayerID, st.EventID, st.Points, st.Wins, st.Losses, st.Bullseyes, st.Triples, st.CreatedAt.Unix()); err != nil {
			return fmt.Errorf("failed to restore stat %d: %w", st.ID, err)
		}
	}

	if err := s.db.ResetSequences(ctx, tx, "players", "events", "stats"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit restore: %w", err)
	}
	log.Info("Replaced league data", "players", len(players), "events", len(events), "stats", len(stats))
	return nil
}
