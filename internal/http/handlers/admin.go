package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	AdminCookieName  = "admin_auth"
	adminCookieValue = "authenticated"
)

// IsAdmin reports whether the request carries the admin session cookie.
func IsAdmin(r *http.Request) bool {
	c, err := r.Cookie(AdminCookieName)
	return err == nil && c.Value == adminCookieValue
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func AdminLoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if IsAdmin(r) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "POST the admin password to /admin/login",
		})
	}
}

// AdminLoginHandler checks the shared admin password, sent as a form field or
// JSON, and opens an admin session.
func AdminLoginHandler(password string, ttl time.Duration, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var given string
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			var body struct {
				Password string `json:"password"`
			}
			if err := decodeJSON(w, r, &body); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			given = body.Password
		} else {
			if err := r.ParseForm(); err != nil {
				writeError(w, http.StatusBadRequest, "Error parsing form")
				return
			}
			given = r.FormValue("password")
		}

		if given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(password)) != 1 {
			log.Warn("Rejected admin login", "remote", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "Invalid password")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     AdminCookieName,
			Value:    adminCookieValue,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		counters.Increment(r.Context(), metrics.CounterAdminLogins)
		log.Info("Admin logged in", "remote", r.RemoteAddr)

		if wantsJSON(r) {
			writeSuccess(w)
			return
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

func AdminLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     AdminCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		if wantsJSON(r) {
			writeSuccess(w)
			return
		}
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	}
}

type dashboard struct {
	CurrentSeason   string         `json:"currentSeason"`
	Players         int            `json:"players"`
	Events          int            `json:"events"`
	CompletedEvents int            `json:"completedEvents"`
	Stats           int            `json:"stats"`
	Activity        map[string]int `json:"activity"`
}

// AdminDashboardHandler summarizes the league for the admin area.
func AdminDashboardHandler(store league.LeagueStore, counters metrics.CounterStore, defaultSeason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d dashboard
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			d.CurrentSeason, err = store.CurrentSeason(ctx, defaultSeason)
			return err
		})
		g.Go(func() error {
			players, err := store.ListPlayers(ctx)
			d.Players = len(players)
			return err
		})
		g.Go(func() error {
			events, err := store.ListEvents(ctx, league.OrderDesc)
			d.Events = len(events)
			return err
		})
		g.Go(func() error {
			completed, err := store.CompletedEventIDs(ctx)
			d.CompletedEvents = len(completed)
			return err
		})
		g.Go(func() error {
			stats, err := store.ListStats(ctx, nil)
			d.Stats = len(stats)
			return err
		})
		g.Go(func() (err error) {
			d.Activity, err = counters.GetAll(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			writeStoreError(w, err, "Failed to load dashboard")
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
