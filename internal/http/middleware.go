package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mauv0809/darts-league/internal/http/handlers"
	"github.com/slack-go/slack"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type contextKey string

const (
	requestIDKey    contextKey = "requestID"
	requestIDHeader            = "X-Request-ID"
)

// verbose tracks requests that asked for debug logging. The charmbracelet
// logger level is process-wide, so while any of them is in flight every
// concurrent request logs at debug too.
var verbose struct {
	sync.Mutex
	active int
	saved  log.Level
}

func enterVerbose() {
	verbose.Lock()
	defer verbose.Unlock()
	if verbose.active == 0 {
		verbose.saved = log.GetLevel()
		log.SetLevel(log.DebugLevel)
	}
	verbose.active++
}

func leaveVerbose() {
	verbose.Lock()
	defer verbose.Unlock()
	verbose.active--
	if verbose.active == 0 {
		log.SetLevel(verbose.saved)
	}
}

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String(), "requestID", requestIDFromContext(r))
		// The level is restored once the last verbose request finishes.
		if r.URL.Query().Get("verbose") == "true" {
			enterVerbose()
			defer leaveVerbose()
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), handlers.DryRunKey, isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestIDMiddleware tags every request with an id, reusing the caller's
// X-Request-ID when present.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFromContext(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

// instrumentMiddleware records the duration and status of every request
// under its route pattern.
func (s *Server) instrumentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		s.Metrics.ObserveRequestDuration(route, r.Method, status, elapsed.Seconds())
		log.Debug("request completed", "method", r.Method, "route", route, "status", status, "duration", elapsed, "requestID", requestIDFromContext(r))
	})
}

// requireAdminAPI rejects API writes without an admin session.
func requireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !handlers.IsAdmin(r) {
			log.Warn("Rejected unauthenticated admin request", "method", r.Method, "url", r.URL.Path)
			handlers.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdminPage sends visitors without an admin session to the login page.
func requireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !handlers.IsAdmin(r) {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// slackVerifierMiddleware checks the Slack request signature. Without a
// signing secret every request is rejected.
func slackVerifierMiddleware(signingSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(signingSecret) == "" {
				log.Error("Slack signing secret is not configured, rejecting command")
				http.Error(w, "Slack commands are not configured", http.StatusUnauthorized)
				return
			}

			sv, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				log.Warn("Invalid Slack request headers", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Error reading body", http.StatusBadRequest)
				return
			}
			if _, err := sv.Write(body); err != nil {
				http.Error(w, "Error reading body", http.StatusInternalServerError)
				return
			}
			if err := sv.Ensure(); err != nil {
				log.Warn("Slack signature verification failed", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
