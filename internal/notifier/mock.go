package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/darts-league/internal/league"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendEventResultsCalls []struct {
		Event   *league.Event
		Results []league.EventResult
		DryRun  bool
	}
	SendStandingsCalls []struct {
		Season  string
		Ranking []league.RankingRow
		DryRun  bool
	}
	FormatPlayerNotFoundCalls []string

	// Optional failure injection
	SendErr error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendEventResults(_ context.Context, event *league.Event, results []league.EventResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendEventResultsCalls = append(m.SendEventResultsCalls, struct {
		Event   *league.Event
		Results []league.EventResult
		DryRun  bool
	}{event, results, dryRun})
	return m.SendErr
}

func (m *Mock) SendStandings(_ context.Context, season string, ranking []league.RankingRow, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, struct {
		Season  string
		Ranking []league.RankingRow
		DryRun  bool
	}{season, ranking, dryRun})
	return m.SendErr
}

func (m *Mock) FormatStandingsResponse(season string, ranking []league.RankingRow) (any, error) {
	return map[string]any{"season": season, "players": len(ranking)}, nil
}

func (m *Mock) FormatPlayerCareerResponse(player *league.Player, seasons []league.SeasonTotals) (any, error) {
	return map[string]any{"player": player.Name, "seasons": len(seasons)}, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerNotFoundCalls = append(m.FormatPlayerNotFoundCalls, query)
	return map[string]any{"notFound": query}, nil
}
