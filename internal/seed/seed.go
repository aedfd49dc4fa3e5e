// Package seed loads the league's opening roster, calendar and first two
// result sheets.
package seed

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
)

// absentPoints is what a player scores for an evening they missed.
const absentPoints = 3

var Players = []string{
	"Albatros", "Bagheera", "Bogey", "Captain", "Cobra Kai",
	"Dart Gangster", "Grizzly", "Hitman", "Joker", "Maverick",
	"Maxson Dart", "Moneymaker", "Phoenix", "Rook", "Russe",
	"Sniper", "Steelman", "Tank", "Thunder", "Venom",
}

type event struct {
	typ         league.EventType
	date        civil.Date
	description string
}

func day(month time.Month, d int) civil.Date {
	return civil.Date{Year: 2026, Month: month, Day: d}
}

var calendar = []event{
	{league.EventSeasonSolo, day(1, 16), "Season Solo Night #1"},
	{league.EventSeasonSolo, day(2, 6), "Season Solo Night #2"},
	{league.EventSeasonTeam, day(2, 27), "Season Team Night #1"},
	{league.EventSeasonTeam, day(3, 20), "Season Team Night #2"},
	{league.EventTournamentTeam, day(4, 10), "Team Tournament #1"},
	{league.EventSeasonTeam, day(5, 1), "Season Team Night #3"},
	{league.EventSeasonTeam, day(5, 22), "Season Team Night #4"},
	{league.EventSeasonSolo, day(6, 12), "Season Solo Night #3"},
	{league.EventSeasonTeam, day(7, 10), "Season Team Night #5"},
	{league.EventTournamentTeam, day(8, 7), "Team Tournament #2"},
	{league.EventSeasonSolo, day(8, 28), "Season Solo Night #4"},
	{league.EventSeasonSolo, day(9, 18), "Season Solo Night #5"},
	{league.EventSeasonTeam, day(10, 9), "Season Team Night #6"},
	{league.EventSeasonSolo, day(10, 23), "Season Solo Night #6"},
	{league.EventTournamentSolo, day(11, 6), "Solo Tournament"},
	{league.EventCelebration, day(12, 4), "End of season celebration"},
}

// sheet is one player's evening: wins, losses, bullseyes, triples. A win is
// worth one point.
type sheet struct{ w, l, b, t int }

// results holds the sheets of the first two evenings. A nil sheet marks an
// absent player.
var results = []map[string]*sheet{
	{
		"Albatros":      {8, 2, 25, 25},
		"Bagheera":      {3, 0, 0, 0},
		"Bogey":         {4, 6, 16, 18},
		"Captain":       {9, 1, 40, 29},
		"Cobra Kai":     {8, 2, 26, 22},
		"Dart Gangster": {1, 9, 14, 4},
		"Grizzly":       {1, 9, 6, 14},
		"Hitman":        {3, 7, 24, 10},
		"Joker":         {4, 6, 14, 20},
		"Maverick":      {3, 0, 0, 0},
		"Maxson Dart":   {0, 0, 10, 13},
		"Moneymaker":    {6, 4, 23, 18},
		"Phoenix":       {5, 5, 18, 19},
		"Rook":          {7, 3, 29, 24},
		"Russe":         {4, 6, 12, 8},
		"Sniper":        {3, 7, 12, 20},
		"Steelman":      {6, 4, 24, 21},
		"Tank":          {9, 1, 30, 22},
		"Thunder":       {7, 3, 38, 17},
		"Venom":         {3, 0, 0, 0},
	},
	{
		"Albatros":      {10, 0, 33, 28},
		"Bagheera":      nil,
		"Bogey":         {2, 8, 8, 12},
		"Captain":       {8, 2, 31, 24},
		"Cobra Kai":     {9, 1, 31, 24},
		"Dart Gangster": {1, 9, 20, 19},
		"Grizzly":       nil,
		"Hitman":        nil,
		"Joker":         {5, 5, 16, 12},
		"Maverick":      {6, 4, 24, 15},
		"Maxson Dart":   {1, 9, 12, 14},
		"Moneymaker":    {8, 2, 29, 26},
		"Phoenix":       {6, 4, 25, 17},
		"Rook":          {7, 3, 29, 18},
		"Russe":         {4, 6, 20, 17},
		"Sniper":        {2, 8, 14, 11},
		"Steelman":      nil,
		"Tank":          {8, 2, 27, 20},
		"Thunder":       {8, 2, 33, 28},
		"Venom":         nil,
	},
}

func (s *sheet) values() league.StatValues {
	if s == nil {
		points, zero := absentPoints, 0
		return league.StatValues{Points: &points, Wins: &zero, Losses: &zero, Bullseyes: &zero, Triples: &zero}
	}
	w, l, b, t := s.w, s.l, s.b, s.t
	return league.StatValues{Points: &w, Wins: &w, Losses: &l, Bullseyes: &b, Triples: &t}
}

// Summary counts the rows written by Run.
type Summary struct {
	Players int
	Events  int
	Stats   int
}

// Run writes the roster, the calendar of the given season and the known
// results. With reset set, the league is wiped first.
func Run(ctx context.Context, store league.LeagueStore, season string, reset bool) (Summary, error) {
	var sum Summary
	if reset {
		log.Info("Resetting league before seeding")
		if err := store.Replace(ctx, nil, nil, nil); err != nil {
			return sum, fmt.Errorf("failed to reset league: %w", err)
		}
	}

	ids := make(map[string]int64, len(Players))
	for _, name := range Players {
		p, err := store.CreatePlayer(ctx, league.PlayerInput{Name: name})
		if err != nil {
			return sum, fmt.Errorf("failed to create player %s: %w", name, err)
		}
		ids[name] = p.ID
		sum.Players++
		log.Debug("Created player", "name", name, "id", p.ID)
	}

	events := make([]*league.Event, 0, len(calendar))
	for _, e := range calendar {
		desc := e.description
		created, err := store.CreateEvent(ctx, league.EventInput{Type: e.typ, Date: e.date, Season: season, Description: &desc})
		if err != nil {
			return sum, fmt.Errorf("failed to create event %s: %w", e.description, err)
		}
		events = append(events, created)
		sum.Events++
		log.Debug("Created event", "description", desc, "id", created.ID)
	}

	for i, sheets := range results {
		for _, name := range Players {
			s, ok := sheets[name]
			if !ok {
				continue
			}
			in := league.StatInput{PlayerID: ids[name], EventID: events[i].ID, StatValues: s.values()}
			if _, _, err := store.UpsertStat(ctx, in); err != nil {
				return sum, fmt.Errorf("failed to record %s at event %d: %w", name, events[i].ID, err)
			}
			sum.Stats++
		}
	}

	log.Info("Seeding completed", "players", sum.Players, "events", sum.Events, "stats", sum.Stats)
	return sum, nil
}
