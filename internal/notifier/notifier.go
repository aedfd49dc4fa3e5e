package notifier

import (
	"context"

	"github.com/mauv0809/darts-league/internal/league"
)

// Notifier defines a high-level interface for sending notifications about league events.
type Notifier interface {
	// For finished league evenings
	SendEventResults(ctx context.Context, event *league.Event, results []league.EventResult, dryRun bool) error
	SendStandings(ctx context.Context, season string, ranking []league.RankingRow, dryRun bool) error

	// For formatting responses for slash commands
	FormatStandingsResponse(season string, ranking []league.RankingRow) (any, error)
	FormatPlayerCareerResponse(player *league.Player, seasons []league.SeasonTotals) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
