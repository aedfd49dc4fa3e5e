// Package calendar classifies league events relative to the current day and
// groups them by season for display.
package calendar

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/mauv0809/darts-league/internal/league"
)

// Status is an event's position relative to today.
type Status string

const (
	StatusPast     Status = "past"
	StatusToday    Status = "today"
	StatusUpcoming Status = "upcoming"
)

// Entry is one event on the calendar.
type Entry struct {
	league.Event
	Status     Status `json:"status"`
	HasResults bool   `json:"hasResults"`
}

// SeasonGroup holds the events of one season in date order.
type SeasonGroup struct {
	Season string  `json:"season"`
	Events []Entry `json:"events"`
}

// Today returns the current calendar day in loc. A nil loc means the server's
// local zone.
func Today(loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(time.Now().In(loc))
}

// Classify compares dates only. Recorded results never make an event past.
func Classify(date, today civil.Date) Status {
	switch {
	case date.Before(today):
		return StatusPast
	case date == today:
		return StatusToday
	default:
		return StatusUpcoming
	}
}

// Group partitions events by season, latest season first, with each season's
// events in ascending date order. completed holds the ids of events with
// recorded results.
func Group(events []league.Event, completed map[int64]bool, today civil.Date) []SeasonGroup {
	index := make(map[string]int)
	groups := []SeasonGroup{}
	for _, e := range events {
		i, ok := index[e.Season]
		if !ok {
			i = len(groups)
			index[e.Season] = i
			groups = append(groups, SeasonGroup{Season: e.Season})
		}
		groups[i].Events = append(groups[i].Events, Entry{
			Event:      e,
			Status:     Classify(e.Date, today),
			HasResults: completed[e.ID],
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Season > groups[j].Season
	})
	for _, g := range groups {
		sort.SliceStable(g.Events, func(i, j int) bool {
			a, b := g.Events[i], g.Events[j]
			if a.Date != b.Date {
				return a.Date.Before(b.Date)
			}
			return a.ID < b.ID
		})
	}
	return groups
}

// Counts tallies entries per status.
func Counts(groups []SeasonGroup) map[Status]int {
	counts := map[Status]int{StatusPast: 0, StatusToday: 0, StatusUpcoming: 0}
	for _, g := range groups {
		for _, e := range g.Events {
			counts[e.Status]++
		}
	}
	return counts
}
