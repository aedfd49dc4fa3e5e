package league_test

import (
	"context"
	"testing"

	"github.com/mauv0809/darts-league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain date", input: "2026-01-16", want: "2026-01-16"},
		{name: "padded", input: " 2026-01-16 ", want: "2026-01-16"},
		{name: "timestamp keeps its own day", input: "2026-01-16T23:30:00+01:00", want: "2026-01-16"},
		{name: "utc timestamp", input: "2025-12-31T00:00:00Z", want: "2025-12-31"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "next friday", wantErr: true},
		{name: "impossible day", input: "2026-02-30", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := league.ParseEventDate(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, league.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestCreateEvent_RoundTrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	in := league.EventInput{
		Type:        league.EventTournamentTeam,
		Date:        date(t, "2026-03-06"),
		Season:      "2025-2026",
		Description: ptr("Spring cup"),
	}
	created, err := store.CreateEvent(ctx, in)
	require.NoError(t, err)

	got, err := store.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Type, got.Type)
	assert.Equal(t, in.Date, got.Date)
	assert.Equal(t, in.Season, got.Season)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Spring cup", *got.Description)

	listed, err := store.ListEvents(ctx, league.OrderAsc)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *got, listed[0])
}

func TestCreateEvent_Validation(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	tests := []struct {
		name string
		in   league.EventInput
		msg  string
	}{
		{
			name: "missing type",
			in:   league.EventInput{Date: date(t, "2026-01-16"), Season: "2025-2026"},
			msg:  "Type, date, and season are required",
		},
		{
			name: "missing date",
			in:   league.EventInput{Type: league.EventCelebration, Season: "2025-2026"},
			msg:  "Type, date, and season are required",
		},
		{
			name: "blank season",
			in:   league.EventInput{Type: league.EventCelebration, Date: date(t, "2026-01-16"), Season: "  "},
			msg:  "Type, date, and season are required",
		},
		{
			name: "unknown type",
			in:   league.EventInput{Type: "karaoke", Date: date(t, "2026-01-16"), Season: "2025-2026"},
			msg:  `type: unknown event type "karaoke"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.CreateEvent(ctx, tc.in)
			require.Error(t, err)
			assert.True(t, league.IsValidation(err))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestListEvents_Order(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	mid := mustEvent(t, store, "2026-02-06", "2025-2026")
	first := mustEvent(t, store, "2025-09-12", "2025-2026")
	last := mustEvent(t, store, "2026-05-29", "2025-2026")

	asc, err := store.ListEvents(ctx, league.OrderAsc)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []int64{first.ID, mid.ID, last.ID}, []int64{asc[0].ID, asc[1].ID, asc[2].ID})

	desc, err := store.ListEvents(ctx, league.OrderDesc)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, []int64{last.ID, mid.ID, first.ID}, []int64{desc[0].ID, desc[1].ID, desc[2].ID})
}

func TestListEventsBySeasonAndSeasons(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	current, err := store.CurrentSeason(ctx, "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, "2024-2025", current, "fallback when there are no events")

	mustEvent(t, store, "2025-03-07", "2024-2025")
	b := mustEvent(t, store, "2026-01-16", "2025-2026")
	a := mustEvent(t, store, "2025-09-12", "2025-2026")

	events, err := store.ListEventsBySeason(ctx, "2025-2026")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, a.ID, events[0].ID)
	assert.Equal(t, b.ID, events[1].ID)

	none, err := store.ListEventsBySeason(ctx, "1999")
	require.NoError(t, err)
	assert.Empty(t, none)

	seasons, err := store.Seasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-2026", "2024-2025"}, seasons)

	current, err = store.CurrentSeason(ctx, "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", current)
}

func TestUpdateEvent(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	e := mustEvent(t, store, "2026-01-16", "2025-2026")
	updated, err := store.UpdateEvent(ctx, e.ID, league.EventInput{
		Type:   league.EventCelebration,
		Date:   date(t, "2026-06-26"),
		Season: "2025-2026",
	})
	require.NoError(t, err)
	assert.Equal(t, league.EventCelebration, updated.Type)
	assert.Equal(t, "2026-06-26", updated.Date.String())
	assert.Nil(t, updated.Description)

	_, err = store.UpdateEvent(ctx, 999, league.EventInput{Type: league.EventCelebration, Date: date(t, "2026-06-26"), Season: "x"})
	assert.ErrorIs(t, err, league.ErrNotFound)

	_, err = store.UpdateEvent(ctx, e.ID, league.EventInput{Type: league.EventCelebration})
	assert.True(t, league.IsValidation(err))
}

func TestDeleteEvent_CascadesStats(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := mustPlayer(t, store, "Tank")
	e1 := mustEvent(t, store, "2026-01-16", "2025-2026")
	e2 := mustEvent(t, store, "2026-02-06", "2025-2026")
	removed := mustStat(t, store, p.ID, e1.ID, league.StatValues{Points: ptr(3)})
	mustStat(t, store, p.ID, e2.ID, league.StatValues{Points: ptr(5)})

	require.NoError(t, store.DeleteEvent(ctx, e1.ID))

	_, err := store.GetStat(ctx, removed.ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	stats, err := store.ListStats(ctx, nil)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, e2.ID, stats[0].EventID)

	assert.ErrorIs(t, store.DeleteEvent(ctx, e1.ID), league.ErrNotFound)
}

func TestNextAndLastEvent(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	today := date(t, "2026-01-16")

	next, err := store.NextEvent(ctx, today)
	require.NoError(t, err)
	assert.Nil(t, next)
	last, err := store.LastEvent(ctx, today)
	require.NoError(t, err)
	assert.Nil(t, last)

	mustEvent(t, store, "2025-11-14", "2025-2026")
	previous := mustEvent(t, store, "2025-12-12", "2025-2026")
	tonight := mustEvent(t, store, "2026-01-16", "2025-2026")
	mustEvent(t, store, "2026-02-06", "2025-2026")

	next, err = store.NextEvent(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, tonight.ID, next.ID, "an event held today is still the next one")

	last, err = store.LastEvent(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, previous.ID, last.ID)
}

func TestCompletedEventIDs(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := mustPlayer(t, store, "Tank")
	q := mustPlayer(t, store, "Rocket")
	played := mustEvent(t, store, "2025-12-12", "2025-2026")
	pending := mustEvent(t, store, "2026-02-06", "2025-2026")
	mustStat(t, store, p.ID, played.ID, league.StatValues{})
	mustStat(t, store, q.ID, played.ID, league.StatValues{})

	completed, err := store.CompletedEventIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{played.ID: true}, completed)
	assert.False(t, completed[pending.ID])
}

func TestSetSeasonForAll(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	mustEvent(t, store, "2025-03-07", "2024-2025")
	mustEvent(t, store, "2025-09-12", "2025-2026")

	n, err := store.SetSeasonForAll(ctx, "2025-2026")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	seasons, err := store.Seasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-2026"}, seasons)

	_, err = store.SetSeasonForAll(ctx, "")
	assert.True(t, league.IsValidation(err))
}
