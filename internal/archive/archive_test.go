package archive_test

import (
	"bytes"
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/mauv0809/darts-league/internal/archive"
	"github.com/mauv0809/darts-league/internal/config"
	"github.com/mauv0809/darts-league/internal/database"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func setupTestStore(t *testing.T) (league.LeagueStore, func()) {
	t.Helper()
	db, err := database.InitDB(config.DatabaseConfig{Name: ":memory:"})
	require.NoError(t, err)
	return league.New(db), func() { db.Close() }
}

func seed(t *testing.T, store league.LeagueStore) {
	t.Helper()
	ctx := context.Background()
	photo := "https://example.com/tank.png"
	tank, err := store.CreatePlayer(ctx, league.PlayerInput{Name: "Tank", PhotoURL: &photo})
	require.NoError(t, err)
	rocket, err := store.CreatePlayer(ctx, league.PlayerInput{Name: "Rocket"})
	require.NoError(t, err)
	desc := "Cup night"
	e, err := store.CreateEvent(ctx, league.EventInput{
		Type:        league.EventTournamentSolo,
		Date:        civil.Date{Year: 2026, Month: 3, Day: 6},
		Season:      "2025-2026",
		Description: &desc,
	})
	require.NoError(t, err)
	points := 7
	_, _, err = store.UpsertStat(ctx, league.StatInput{PlayerID: tank.ID, EventID: e.ID, StatValues: league.StatValues{Points: &points}})
	require.NoError(t, err)
	_, _, err = store.UpsertStat(ctx, league.StatInput{PlayerID: rocket.ID, EventID: e.ID})
	require.NoError(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src, closeSrc := setupTestStore(t)
	defer closeSrc()
	dst, closeDst := setupTestStore(t)
	defer closeDst()
	ctx := context.Background()

	seed(t, src)

	var buf bytes.Buffer
	exported, err := archive.Export(ctx, src, &buf)
	require.NoError(t, err)
	assert.Len(t, exported.Players, 2)
	assert.Len(t, exported.Events, 1)
	assert.Len(t, exported.Stats, 2)

	imported, err := archive.Import(ctx, dst, &buf)
	require.NoError(t, err)
	assert.Equal(t, exported.Players, imported.Players)

	srcPlayers, err := src.ListPlayers(ctx)
	require.NoError(t, err)
	dstPlayers, err := dst.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, srcPlayers, dstPlayers)

	srcEvents, err := src.ListEvents(ctx, league.OrderAsc)
	require.NoError(t, err)
	dstEvents, err := dst.ListEvents(ctx, league.OrderAsc)
	require.NoError(t, err)
	assert.Equal(t, srcEvents, dstEvents)

	srcStats, err := src.ListStats(ctx, nil)
	require.NoError(t, err)
	dstStats, err := dst.ListStats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, srcStats, dstStats)
}

func TestDecode_RejectsUnknownVersion(t *testing.T) {
	data, err := msgpack.Marshal(&archive.Snapshot{Version: 99})
	require.NoError(t, err)

	_, err = archive.Decode(bytes.NewReader(data))
	assert.ErrorContains(t, err, "unsupported snapshot version 99")
}

func TestRestore_RejectsBadRows(t *testing.T) {
	store, closeStore := setupTestStore(t)
	defer closeStore()
	seed(t, store)
	ctx := context.Background()

	err := archive.Restore(ctx, store, &archive.Snapshot{
		Version: archive.Version,
		Events:  []archive.Event{{ID: 1, Type: "karaoke", Date: "2026-01-16", Season: "x"}},
	})
	assert.ErrorContains(t, err, `unknown type "karaoke"`)

	err = archive.Restore(ctx, store, &archive.Snapshot{
		Version: archive.Version,
		Events:  []archive.Event{{ID: 1, Type: "celebration", Date: "16/01/2026", Season: "x"}},
	})
	assert.ErrorContains(t, err, "malformed date")

	players, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 2, "rejected snapshots leave the league untouched")
}
