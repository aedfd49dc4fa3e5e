package league

import (
	"context"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"
)

// Overview is the league front page: where the season stands and who leads.
type Overview struct {
	CurrentSeason string   `json:"currentSeason"`
	Seasons       []string `json:"seasons"`
	NextEvent     *Event   `json:"nextEvent"`
	LastEvent     *Event   `json:"lastEvent"`
	Leaders
}

// LoadOverview runs the overview queries concurrently. Any failing query
// fails the whole overview.
func LoadOverview(ctx context.Context, store LeagueStore, today civil.Date, defaultSeason string, n int) (*Overview, error) {
	var (
		ov     Overview
		totals []LeaderRow
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ov.Seasons, err = store.Seasons(ctx)
		return err
	})
	g.Go(func() (err error) {
		ov.NextEvent, err = store.NextEvent(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		ov.LastEvent, err = store.LastEvent(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		totals, err = store.LeaderTotals(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ov.CurrentSeason = defaultSeason
	if len(ov.Seasons) > 0 {
		ov.CurrentSeason = ov.Seasons[0]
	}
	ov.Leaders = BuildLeaders(totals, n)
	return &ov, nil
}
