package league

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/mauv0809/darts-league/internal/database"
)

// store handles all database operations for the league.
type store struct {
	db  *database.DB
	now func() time.Time
}

// EventType is one of the fixed kinds of league evening.
type EventType string

const (
	EventSeasonSolo     EventType = "season-solo"
	EventSeasonTeam     EventType = "season-team"
	EventTournamentSolo EventType = "tournament-solo"
	EventTournamentTeam EventType = "tournament-team"
	EventCelebration    EventType = "celebration"
)

// EventTypes lists every valid event type.
var EventTypes = []EventType{
	EventSeasonSolo,
	EventSeasonTeam,
	EventTournamentSolo,
	EventTournamentTeam,
	EventCelebration,
}

func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the display name of the event type.
func (t EventType) Label() string {
	switch t {
	case EventSeasonSolo:
		return "Season Solo"
	case EventSeasonTeam:
		return "Season Team"
	case EventTournamentSolo:
		return "Tournament Solo"
	case EventTournamentTeam:
		return "Tournament Team"
	case EventCelebration:
		return "Celebration"
	}
	return string(t)
}

// Metric names a summable stat column usable for leaderboards.
type Metric string

const (
	MetricPoints    Metric = "points"
	MetricBullseyes Metric = "bullseyes"
	MetricTriples   Metric = "triples"
)

// column returns the stats column backing the metric. Only whitelisted
// metrics ever reach SQL.
func (m Metric) column() (string, bool) {
	switch m {
	case MetricPoints:
		return "points", true
	case MetricBullseyes:
		return "bullseyes", true
	case MetricTriples:
		return "triples", true
	}
	return "", false
}

// Order is the date direction for event listings.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	PhotoURL  *string   `json:"photoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayerInput carries the writable player fields.
type PlayerInput struct {
	Name     string  `json:"name"`
	PhotoURL *string `json:"photoUrl"`
}

type Event struct {
	ID          int64      `json:"id"`
	Type        EventType  `json:"type"`
	Date        civil.Date `json:"date"`
	Season      string     `json:"season"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// EventInput carries the writable event fields.
type EventInput struct {
	Type        EventType  `json:"type"`
	Date        civil.Date `json:"date"`
	Season      string     `json:"season"`
	Description *string    `json:"description"`
}

// Stat is one player's results for one event.
type Stat struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"playerId"`
	EventID   int64     `json:"eventId"`
	Points    int       `json:"points"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Bullseyes int       `json:"bullseyes"`
	Triples   int       `json:"triples"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatValues is a partial set of metrics. Nil fields are left untouched on
// update and default to zero on insert.
type StatValues struct {
	Points    *int `json:"points"`
	Wins      *int `json:"wins"`
	Losses    *int `json:"losses"`
	Bullseyes *int `json:"bullseyes"`
	Triples   *int `json:"triples"`
}

// StatInput identifies the (player, event) row to upsert.
type StatInput struct {
	PlayerID int64 `json:"playerId"`
	EventID  int64 `json:"eventId"`
	StatValues
}

// RankingRow is a player's summed results over one season.
type RankingRow struct {
	PlayerID  int64   `json:"playerId"`
	Name      string  `json:"playerName"`
	PhotoURL  *string `json:"photoUrl"`
	Points    int     `json:"totalPoints"`
	Wins      int     `json:"totalWins"`
	Losses    int     `json:"totalLosses"`
	Bullseyes int     `json:"totalBullseyes"`
	Triples   int     `json:"totalTriples"`
}

// LeaderRow is a player's all-time totals for the leaderboard metrics.
type LeaderRow struct {
	PlayerID  int64   `json:"playerId"`
	Name      string  `json:"playerName"`
	PhotoURL  *string `json:"photoUrl"`
	Points    int     `json:"totalPoints"`
	Bullseyes int     `json:"totalBullseyes"`
	Triples   int     `json:"totalTriples"`
}

// Value returns the total for m, or zero for an unknown metric.
func (r LeaderRow) Value(m Metric) int {
	switch m {
	case MetricPoints:
		return r.Points
	case MetricBullseyes:
		return r.Bullseyes
	case MetricTriples:
		return r.Triples
	}
	return 0
}

// Leaders holds the top players for each leaderboard metric.
type Leaders struct {
	Points    []LeaderRow `json:"topPoints"`
	Bullseyes []LeaderRow `json:"topBullseyes"`
	Triples   []LeaderRow `json:"topTriples"`
}

// SeasonTotals is one player's summed results for one season.
type SeasonTotals struct {
	Season       string `json:"season"`
	Points       int    `json:"totalPoints"`
	Wins         int    `json:"totalWins"`
	Losses       int    `json:"totalLosses"`
	Bullseyes    int    `json:"totalBullseyes"`
	Triples      int    `json:"totalTriples"`
	EventsPlayed int    `json:"eventsPlayed"`
}

// CareerTotals is the sum of every season a player took part in.
type CareerTotals struct {
	Points       int `json:"totalPoints"`
	Wins         int `json:"totalWins"`
	Losses       int `json:"totalLosses"`
	Bullseyes    int `json:"totalBullseyes"`
	Triples      int `json:"totalTriples"`
	EventsPlayed int `json:"eventsPlayed"`
	Seasons      int `json:"seasons"`
}

// EventResult is one line of an event's result sheet.
type EventResult struct {
	PlayerID  int64   `json:"playerId"`
	Name      string  `json:"playerName"`
	PhotoURL  *string `json:"photoUrl"`
	Points    int     `json:"points"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Bullseyes int     `json:"bullseyes"`
	Triples   int     `json:"triples"`
}
