// Package archive exports and restores the whole league as a msgpack snapshot.
package archive

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is the snapshot format written by Export.
const Version = 1

type Snapshot struct {
	Version    int       `msgpack:"version"`
	ExportedAt time.Time `msgpack:"exported_at"`
	Players    []Player  `msgpack:"players"`
	Events     []Event   `msgpack:"events"`
	Stats      []Stat    `msgpack:"stats"`
}

type Player struct {
	ID        int64   `msgpack:"id"`
	Name      string  `msgpack:"name"`
	PhotoURL  *string `msgpack:"photo_url"`
	CreatedAt int64   `msgpack:"created_at"`
}

type Event struct {
	ID          int64   `msgpack:"id"`
	Type        string  `msgpack:"type"`
	Date        string  `msgpack:"date"`
	Season      string  `msgpack:"season"`
	Description *string `msgpack:"description"`
	CreatedAt   int64   `msgpack:"created_at"`
}

type Stat struct {
	ID        int64 `msgpack:"id"`
	PlayerID  int64 `msgpack:"player_id"`
	EventID   int64 `msgpack:"event_id"`
	Points    int   `msgpack:"points"`
	Wins      int   `msgpack:"wins"`
	Losses    int   `msgpack:"losses"`
	Bullseyes int   `msgpack:"bullseyes"`
	Triples   int   `msgpack:"triples"`
	CreatedAt int64 `msgpack:"created_at"`
}

// Take reads every player, event and stat from the store.
func Take(ctx context.Context, store league.LeagueStore) (*Snapshot, error) {
	players, err := store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	events, err := store.ListEvents(ctx, league.OrderAsc)
	if err != nil {
		return nil, err
	}
	stats, err := store.ListStats(ctx, nil)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version:    Version,
		ExportedAt: time.Now().UTC(),
		Players:    make([]Player, 0, len(players)),
		Events:     make([]Event, 0, len(events)),
		Stats:      make([]Stat, 0, len(stats)),
	}
	for _, p := range players {
		snap.Players = append(snap.Players, Player{ID: p.ID, Name: p.Name, PhotoURL: p.PhotoURL, CreatedAt: p.CreatedAt.Unix()})
	}
	for _, e := range events {
		snap.Events = append(snap.Events, Event{
			ID:          e.ID,
			Type:        string(e.Type),
			Date:        e.Date.String(),
			Season:      e.Season,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Unix(),
		})
	}
	for _, st := range stats {
		snap.Stats = append(snap.Stats, Stat{
			ID:        st.ID,
			PlayerID:  st.PlayerID,
			EventID:   st.EventID,
			Points:    st.Points,
			Wins:      st.Wins,
			Losses:    st.Losses,
			Bullseyes: st.Bullseyes,
			Triples:   st.Triples,
			CreatedAt: st.CreatedAt.Unix(),
		})
	}
	return snap, nil
}

// Export writes a snapshot of the store to w.
func Export(ctx context.Context, store league.LeagueStore, w io.Writer) (*Snapshot, error) {
	snap, err := Take(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to read league: %w", err)
	}
	if err := msgpack.NewEncoder(w).Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	log.Info("Exported league", "players", len(snap.Players), "events", len(snap.Events), "stats", len(snap.Stats))
	return snap, nil
}

// Decode reads a snapshot and checks its version.
func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return &snap, nil
}

// Restore replaces all league data with the snapshot, keeping ids.
func Restore(ctx context.Context, store league.LeagueStore, snap *Snapshot) error {
	players := make([]league.Player, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, league.Player{ID: p.ID, Name: p.Name, PhotoURL: p.PhotoURL, CreatedAt: time.Unix(p.CreatedAt, 0).UTC()})
	}

	events := make([]league.Event, 0, len(snap.Events))
	for _, e := range snap.Events {
		d, err := civil.ParseDate(e.Date)
		if err != nil {
			return fmt.Errorf("event %d: malformed date %q: %w", e.ID, e.Date, err)
		}
		t := league.EventType(e.Type)
		if !t.Valid() {
			return fmt.Errorf("event %d: unknown type %q", e.ID, e.Type)
		}
		events = append(events, league.Event{
			ID:          e.ID,
			Type:        t,
			Date:        d,
			Season:      e.Season,
			Description: e.Description,
			CreatedAt:   time.Unix(e.CreatedAt, 0).UTC(),
		})
	}

	stats := make([]league.Stat, 0, len(snap.Stats))
	for _, st := range snap.Stats {
		stats = append(stats, league.Stat{
			ID:        st.ID,
			PlayerID:  st.PlayerID,
			EventID:   st.EventID,
			Points:    st.Points,
			Wins:      st.Wins,
			Losses:    st.Losses,
			Bullseyes: st.Bullseyes,
			Triples:   st.Triples,
			CreatedAt: time.Unix(st.CreatedAt, 0).UTC(),
		})
	}

	return store.Replace(ctx, players, events, stats)
}

// Import decodes a snapshot from r and restores it.
func Import(ctx context.Context, store league.LeagueStore, r io.Reader) (*Snapshot, error) {
	snap, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := Restore(ctx, store, snap); err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	log.Info("Imported league", "players", len(snap.Players), "events", len(snap.Events), "stats", len(snap.Stats))
	return snap, nil
}
