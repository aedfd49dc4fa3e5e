package league_test

import (
	"context"
	"testing"

	"github.com/mauv0809/darts-league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetPlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	created, err := store.CreatePlayer(ctx, league.PlayerInput{Name: "  Tank ", PhotoURL: ptr("https://example.com/tank.png")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Tank", created.Name)
	require.NotNil(t, created.PhotoURL)
	assert.Equal(t, "https://example.com/tank.png", *created.PhotoURL)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.GetPlayer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreatePlayer_Validation(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.CreatePlayer(context.Background(), league.PlayerInput{Name: "   "})
	require.Error(t, err)
	assert.True(t, league.IsValidation(err))
	assert.Equal(t, "name: Name is required", err.Error())
}

func TestCreatePlayer_BlankPhotoIsNull(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	p, err := store.CreatePlayer(context.Background(), league.PlayerInput{Name: "Rocket", PhotoURL: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, p.PhotoURL)
}

func TestCreatePlayer_Duplicate(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	mustPlayer(t, store, "Tank")
	_, err := store.CreatePlayer(context.Background(), league.PlayerInput{Name: "Tank"})
	assert.ErrorIs(t, err, league.ErrDuplicate)
}

func TestGetPlayer_NotFound(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.GetPlayer(context.Background(), 42)
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestListPlayers_OrderedByName(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players, err := store.ListPlayers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, players)
	assert.Empty(t, players)

	for _, name := range []string{"Zorro", "Arrow", "Mika"} {
		mustPlayer(t, store, name)
	}
	players, err = store.ListPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "Arrow", players[0].Name)
	assert.Equal(t, "Mika", players[1].Name)
	assert.Equal(t, "Zorro", players[2].Name)
}

func TestFindPlayerByName(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	mustPlayer(t, store, "Tank")
	mustPlayer(t, store, "Tankred")
	mustPlayer(t, store, "Rocket")

	p, err := store.FindPlayerByName(ctx, "tank")
	require.NoError(t, err)
	assert.Equal(t, "Tank", p.Name, "exact match wins over partial")

	p, err = store.FindPlayerByName(ctx, "OCK")
	require.NoError(t, err)
	assert.Equal(t, "Rocket", p.Name)

	_, err = store.FindPlayerByName(ctx, "nobody")
	assert.ErrorIs(t, err, league.ErrNotFound)

	_, err = store.FindPlayerByName(ctx, " ")
	assert.True(t, league.IsValidation(err))
}

func TestUpdatePlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := mustPlayer(t, store, "Tank")
	mustPlayer(t, store, "Rocket")

	updated, err := store.UpdatePlayer(ctx, p.ID, league.PlayerInput{Name: "Tank II", PhotoURL: ptr("https://example.com/t2.png")})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Tank II", updated.Name)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	_, err = store.UpdatePlayer(ctx, p.ID, league.PlayerInput{Name: "Rocket"})
	assert.ErrorIs(t, err, league.ErrDuplicate)

	_, err = store.UpdatePlayer(ctx, 999, league.PlayerInput{Name: "Ghost"})
	assert.ErrorIs(t, err, league.ErrNotFound)

	_, err = store.UpdatePlayer(ctx, p.ID, league.PlayerInput{})
	assert.True(t, league.IsValidation(err))
}

func TestDeletePlayer_CascadesStats(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := mustPlayer(t, store, "Tank")
	other := mustPlayer(t, store, "Rocket")
	e := mustEvent(t, store, "2026-01-16", "2025-2026")
	mustStat(t, store, p.ID, e.ID, league.StatValues{Points: ptr(3)})
	kept := mustStat(t, store, other.ID, e.ID, league.StatValues{Points: ptr(1)})

	require.NoError(t, store.DeletePlayer(ctx, p.ID))

	stats, err := store.ListStats(ctx, nil)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, kept.ID, stats[0].ID)

	assert.ErrorIs(t, store.DeletePlayer(ctx, p.ID), league.ErrNotFound)
}
