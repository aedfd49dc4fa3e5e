package league

import (
	"context"

	"cloud.google.com/go/civil"
)

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	CreatePlayer(ctx context.Context, in PlayerInput) (*Player, error)
	GetPlayer(ctx context.Context, id int64) (*Player, error)
	FindPlayerByName(ctx context.Context, query string) (*Player, error)
	ListPlayers(ctx context.Context) ([]Player, error)
	UpdatePlayer(ctx context.Context, id int64, in PlayerInput) (*Player, error)
	DeletePlayer(ctx context.Context, id int64) error

	CreateEvent(ctx context.Context, in EventInput) (*Event, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ListEvents(ctx context.Context, order Order) ([]Event, error)
	ListEventsBySeason(ctx context.Context, season string) ([]Event, error)
	UpdateEvent(ctx context.Context, id int64, in EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	Seasons(ctx context.Context) ([]string, error)
	CurrentSeason(ctx context.Context, fallback string) (string, error)
	NextEvent(ctx context.Context, today civil.Date) (*Event, error)
	LastEvent(ctx context.Context, today civil.Date) (*Event, error)
	CompletedEventIDs(ctx context.Context) (map[int64]bool, error)
	SetSeasonForAll(ctx context.Context, season string) (int64, error)

	// UpsertStat creates or updates the single stat row of (player, event).
	// The boolean reports whether a new row was inserted.
	UpsertStat(ctx context.Context, in StatInput) (*Stat, bool, error)
	UpdateStat(ctx context.Context, id int64, values StatValues) (*Stat, error)
	GetStat(ctx context.Context, id int64) (*Stat, error)
	// ListStats returns every stat, or only those of eventID when it is non-nil.
	ListStats(ctx context.Context, eventID *int64) ([]Stat, error)
	DeleteStat(ctx context.Context, id int64) error
	ResetStats(ctx context.Context) (int64, error)

	TopPlayers(ctx context.Context, metric Metric, limit int) ([]LeaderRow, error)
	LeaderTotals(ctx context.Context) ([]LeaderRow, error)
	SeasonRanking(ctx context.Context, season string) ([]RankingRow, error)
	PlayerSeasons(ctx context.Context, playerID int64) ([]SeasonTotals, error)
	EventResults(ctx context.Context, eventID int64) ([]EventResult, error)

	// Replace wipes the league and loads the given rows with their ids.
	Replace(ctx context.Context, players []Player, events []Event, stats []Stat) error
}
