package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/database"
)

const playerColumns = `id, name, photo_url, created_at`

func (in PlayerInput) validate() (PlayerInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, invalid("name", "Name is required")
	}
	if in.PhotoURL != nil && strings.TrimSpace(*in.PhotoURL) == "" {
		in.PhotoURL = nil
	}
	return in, nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var photo sql.NullString
	var createdAt int64
	if err := scanner.Scan(&p.ID, &p.Name, &photo, &createdAt); err != nil {
		return nil, err
	}
	if photo.Valid {
		p.PhotoURL = &photo.String
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

func (s *store) CreatePlayer(ctx context.Context, in PlayerInput) (*Player, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	row := s.queryRow(ctx, `
		INSERT INTO players (name, photo_url, created_at)
		VALUES (?, ?, ?)
		RETURNING `+playerColumns,
		in.Name, in.PhotoURL, s.now().Unix(),
	)
	p, err := scanPlayer(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("player %q: %w", in.Name, ErrDuplicate)
		}
		log.Error("Failed to create player", "error", err, "name", in.Name)
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	log.Info("Created player", "playerID", p.ID, "name", p.Name)
	return p, nil
}

func (s *store) GetPlayer(ctx context.Context, id int64) (*Player, error) {
	p, err := scanPlayer(s.queryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("player", id)
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return p, nil
}

// FindPlayerByName performs a case-insensitive substring search, e.g. "tank"
// matches "Tank". Exact matches win over partial ones.
func (s *store) FindPlayerByName(ctx context.Context, query string) (*Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("name", "Player name is required")
	}

	pattern := "%" + strings.ToLower(query) + "%"
	row := s.queryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE LOWER(name) LIKE ?
		ORDER BY CASE WHEN LOWER(name) = ? THEN 0 ELSE 1 END, LOWER(name), id
		LIMIT 1`,
		pattern, strings.ToLower(query),
	)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("No player found matching pattern", "pattern", pattern)
			return nil, fmt.Errorf("player matching %q: %w", query, ErrNotFound)
		}
		log.Error("Failed to query player by name", "error", err, "pattern", pattern)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return p, nil
}

func (s *store) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := s.query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY LOWER(name), id`)
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(players, func(i, j int) bool {
		return nameLess(players[i].Name, players[i].ID, players[j].Name, players[j].ID)
	})
	return players, nil
}

func (s *store) UpdatePlayer(ctx context.Context, id int64, in PlayerInput) (*Player, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	row := s.queryRow(ctx, `
		UPDATE players SET name = ?, photo_url = ?
		WHERE id = ?
		RETURNING `+playerColumns,
		in.Name, in.PhotoURL, id,
	)
	p, err := scanPlayer(row)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, notFound("player", id)
		case database.IsUniqueViolation(err):
			return nil, fmt.Errorf("player %q: %w", in.Name, ErrDuplicate)
		}
		log.Error("Failed to update player", "error", err, "playerID", id)
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}
	log.Info("Updated player", "playerID", id, "name", p.Name)
	return p, nil
}

// DeletePlayer removes the player; their stats go with them.
func (s *store) DeletePlayer(ctx context.Context, id int64) error {
	n, err := s.execAffected(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		log.Error("Failed to delete player", "error", err, "playerID", id)
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	if n == 0 {
		return notFound("player", id)
	}
	log.Info("Deleted player", "playerID", id)
	return nil
}
