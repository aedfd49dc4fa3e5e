package league

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// tieBreak lists the metrics consulted after the primary one when two
// players are level.
var tieBreak = []Metric{MetricPoints, MetricBullseyes, MetricTriples}

// nameLess is the last tie-break of every ranking and the order of player
// lists: case-insensitive name, then exact name, then id. Rows are sorted
// with it after scanning, whatever the database collation.
func nameLess(aName string, aID int64, bName string, bID int64) bool {
	if la, lb := strings.ToLower(aName), strings.ToLower(bName); la != lb {
		return la < lb
	}
	if aName != bName {
		return aName < bName
	}
	return aID < bID
}

// scoreKey orders result rows by points, bullseyes and triples descending,
// then by nameLess.
type scoreKey struct {
	points, bullseyes, triples int
	name                       string
	id                         int64
}

func (a scoreKey) less(b scoreKey) bool {
	switch {
	case a.points != b.points:
		return a.points > b.points
	case a.bullseyes != b.bullseyes:
		return a.bullseyes > b.bullseyes
	case a.triples != b.triples:
		return a.triples > b.triples
	}
	return nameLess(a.name, a.id, b.name, b.id)
}

func (r RankingRow) key() scoreKey {
	return scoreKey{r.Points, r.Bullseyes, r.Triples, r.Name, r.PlayerID}
}

func (r EventResult) key() scoreKey {
	return scoreKey{r.Points, r.Bullseyes, r.Triples, r.Name, r.PlayerID}
}

// TopPlayers returns the limit best players by all-time total of metric.
// Players without any stats appear with zero totals.
func (s *store) TopPlayers(ctx context.Context, metric Metric, limit int) ([]LeaderRow, error) {
	if _, ok := metric.column(); !ok {
		return nil, invalid("metric", fmt.Sprintf("unknown metric %q", metric))
	}
	if limit < 1 {
		return nil, invalid("limit", "limit must be at least 1")
	}
	totals, err := s.LeaderTotals(ctx)
	if err != nil {
		return nil, err
	}
	return RankBy(totals, metric, limit), nil
}

// LeaderTotals sums every leaderboard metric per player across all events.
func (s *store) LeaderTotals(ctx context.Context) ([]LeaderRow, error) {
	rows, err := s.query(ctx, `
		SELECT p.id, p.name, p.photo_url,
			COALESCE(SUM(st.points), 0),
			COALESCE(SUM(st.bullseyes), 0),
			COALESCE(SUM(st.triples), 0)
		FROM players p
		LEFT JOIN stats st ON st.player_id = p.id
		GROUP BY p.id, p.name, p.photo_url
		ORDER BY LOWER(p.name), p.id`)
	if err != nil {
		log.Error("Failed to query leader totals", "error", err)
		return nil, fmt.Errorf("failed to load leader totals: %w", err)
	}
	defer rows.Close()

	totals := []LeaderRow{}
	for rows.Next() {
		var r LeaderRow
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.PhotoURL, &r.Points, &r.Bullseyes, &r.Triples); err != nil {
			return nil, fmt.Errorf("failed to scan leader totals: %w", err)
		}
		totals = append(totals, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return nameLess(totals[i].Name, totals[i].PlayerID, totals[j].Name, totals[j].PlayerID)
	})
	return totals, nil
}

// RankBy orders totals by metric and keeps the first n. Ties fall back to
// the remaining metrics and then to nameLess. The input is not modified.
func RankBy(totals []LeaderRow, metric Metric, n int) []LeaderRow {
	sorted := make([]LeaderRow, len(totals))
	copy(sorted, totals)
	order := append([]Metric{metric}, tieBreak...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		for _, m := range order {
			if a.Value(m) != b.Value(m) {
				return a.Value(m) > b.Value(m)
			}
		}
		return nameLess(a.Name, a.PlayerID, b.Name, b.PlayerID)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// BuildLeaders builds the three leaderboards from one set of totals.
func BuildLeaders(totals []LeaderRow, n int) Leaders {
	return Leaders{
		Points:    RankBy(totals, MetricPoints, n),
		Bullseyes: RankBy(totals, MetricBullseyes, n),
		Triples:   RankBy(totals, MetricTriples, n),
	}
}

// SeasonRanking returns every player with at least one result in season,
// ordered by points, then bullseyes, then triples, then name.
func (s *store) SeasonRanking(ctx context.Context, season string) ([]RankingRow, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		return nil, invalid("season", "Season is required")
	}
	rows, err := s.query(ctx, `
		SELECT p.id, p.name, p.photo_url,
			SUM(st.points) AS total_points,
			SUM(st.wins),
			SUM(st.losses),
			SUM(st.bullseyes) AS total_bullseyes,
			SUM(st.triples) AS total_triples
		FROM stats st
		JOIN players p ON p.id = st.player_id
		JOIN events e ON e.id = st.event_id
		WHERE e.season = ?
		GROUP BY p.id, p.name, p.photo_url
		ORDER BY total_points DESC, total_bullseyes DESC, total_triples DESC, LOWER(p.name), p.id`,
		season,
	)
	if err != nil {
		log.Error("Failed to query season ranking", "error", err, "season", season)
		return nil, fmt.Errorf("failed to load ranking for season %q: %w", season, err)
	}
	defer rows.Close()

	ranking := []RankingRow{}
	for rows.Next() {
		var r RankingRow
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.PhotoURL, &r.Points, &r.Wins, &r.Losses, &r.Bullseyes, &r.Triples); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		ranking = append(ranking, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].key().less(ranking[j].key())
	})
	return ranking, nil
}

// PlayerSeasons returns one row per season the player has results in,
// latest season first.
func (s *store) PlayerSeasons(ctx context.Context, playerID int64) ([]SeasonTotals, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, `
		SELECT e.season,
			SUM(st.points), SUM(st.wins), SUM(st.losses), SUM(st.bullseyes), SUM(st.triples),
			COUNT(st.id)
		FROM stats st
		JOIN events e ON e.id = st.event_id
		WHERE st.player_id = ?
		GROUP BY e.season
		ORDER BY e.season DESC`,
		playerID,
	)
	if err != nil {
		log.Error("Failed to query player seasons", "error", err, "playerID", playerID)
		return nil, fmt.Errorf("failed to load seasons for player %d: %w", playerID, err)
	}
	defer rows.Close()

	seasons := []SeasonTotals{}
	for rows.Next() {
		var t SeasonTotals
		if err := rows.Scan(&t.Season, &t.Points, &t.Wins, &t.Losses, &t.Bullseyes, &t.Triples, &t.EventsPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan season totals: %w", err)
		}
		seasons = append(seasons, t)
	}
	return seasons, rows.Err()
}

// SumCareer folds per-season rows into career totals. A nil or empty slice
// yields zero totals.
func SumCareer(seasons []SeasonTotals) CareerTotals {
	var c CareerTotals
	for _, t := range seasons {
		c.Points += t.Points
		c.Wins += t.Wins
		c.Losses += t.Losses
		c.Bullseyes += t.Bullseyes
		c.Triples += t.Triples
		c.EventsPlayed += t.EventsPlayed
		c.Seasons++
	}
	return c
}

// EventResults returns the result sheet of one event, best score first.
func (s *store) EventResults(ctx context.Context, eventID int64) ([]EventResult, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, `
		SELECT p.id, p.name, p.photo_url, st.points, st.wins, st.losses, st.bullseyes, st.triples
		FROM stats st
		JOIN players p ON p.id = st.player_id
		WHERE st.event_id = ?
		ORDER BY st.points DESC, st.bullseyes DESC, st.triples DESC, LOWER(p.name), p.id`,
		eventID,
	)
	if err != nil {
		log.Error("Failed to query event results", "error", err, "eventID", eventID)
		return nil, fmt.Errorf("failed to load results for event %d: %w", eventID, err)
	}
	defer rows.Close()

	results := []EventResult{}
	for rows.Next() {
		var r EventResult
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.PhotoURL, &r.Points, &r.Wins, &r.Losses, &r.Bullseyes, &r.Triples); err != nil {
			return nil, fmt.Errorf("failed to scan event result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].key().less(results[j].key())
	})
	return results, nil
}
