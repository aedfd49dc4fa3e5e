package league_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/mauv0809/darts-league/internal/config"
	"github.com/mauv0809/darts-league/internal/database"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a migrated in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (league.LeagueStore, *database.DB, func()) {
	t.Helper()

	db, err := database.InitDB(config.DatabaseConfig{Name: ":memory:"})
	require.NoError(t, err)

	store := league.New(db)
	teardown := func() {
		db.Close()
	}
	return store, db, teardown
}

func ptr[T any](v T) *T { return &v }

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustPlayer(t *testing.T, store league.LeagueStore, name string) *league.Player {
	t.Helper()
	p, err := store.CreatePlayer(context.Background(), league.PlayerInput{Name: name})
	require.NoError(t, err)
	return p
}

func mustEvent(t *testing.T, store league.LeagueStore, day, season string) *league.Event {
	t.Helper()
	e, err := store.CreateEvent(context.Background(), league.EventInput{
		Type:   league.EventSeasonSolo,
		Date:   date(t, day),
		Season: season,
	})
	require.NoError(t, err)
	return e
}

func mustStat(t *testing.T, store league.LeagueStore, playerID, eventID int64, v league.StatValues) *league.Stat {
	t.Helper()
	st, _, err := store.UpsertStat(context.Background(), league.StatInput{PlayerID: playerID, EventID: eventID, StatValues: v})
	require.NoError(t, err)
	return st
}

func TestReplace(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	old := mustPlayer(t, store, "Old Timer")
	oldEvent := mustEvent(t, store, "2023-05-05", "2022-2023")
	mustStat(t, store, old.ID, oldEvent.ID, league.StatValues{Points: ptr(1)})

	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	players := []league.Player{
		{ID: 7, Name: "Tank", PhotoURL: ptr("https://example.com/tank.png"), CreatedAt: created},
		{ID: 9, Name: "Rocket", CreatedAt: created},
	}
	events := []league.Event{
		{ID: 3, Type: league.EventTournamentTeam, Date: date(t, "2025-10-10"), Season: "2025-2026", Description: ptr("Cup"), CreatedAt: created},
	}
	stats := []league.Stat{
		{ID: 11, PlayerID: 7, EventID: 3, Points: 5, Wins: 3, Losses: 1, Bullseyes: 2, Triples: 4, CreatedAt: created},
	}
	require.NoError(t, store.Replace(ctx, players, events, stats))

	gotPlayers, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, gotPlayers, 2)
	assert.Equal(t, "Rocket", gotPlayers[0].Name)
	assert.Equal(t, players[0], gotPlayers[1])

	gotEvent, err := store.GetEvent(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, events[0], *gotEvent)

	gotStat, err := store.GetStat(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, stats[0], *gotStat)

	_, err = store.GetPlayer(ctx, old.ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	// New rows continue after the restored ids.
	p := mustPlayer(t, store, "Newcomer")
	assert.Greater(t, p.ID, int64(9))
}

func TestReplace_RollsBackOnFailure(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	keep := mustPlayer(t, store, "Keeper")

	// The stat references an event that is not part of the snapshot.
	err := store.Replace(ctx,
		[]league.Player{{ID: 1, Name: "Tank"}},
		nil,
		[]league.Stat{{ID: 1, PlayerID: 1, EventID: 99}},
	)
	require.Error(t, err)

	got, err := store.GetPlayer(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keeper", got.Name)
}
