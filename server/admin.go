package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onefight/game"
)

// MatchControl is the part of a match the admin endpoints may touch from
// outside the loop goroutine.
type MatchControl interface {
	Mode() game.Mode
	TickInterval() time.Duration
	SetTickInterval(d time.Duration) bool
}

// NewRouter mounts the health, metrics, admin and spectator endpoints.
func NewRouter(match MatchControl, metrics *game.Metrics, hub *Hub, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", hub.HandleWS)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/stats", handleStats(match, metrics, hub))
		r.Get("/config", handleGetConfig(match))
		r.Post("/config", handleSetConfig(match))
	})
	return r
}

type configPayload struct {
	Mode     game.Mode `json:"mode,omitempty"`
	TickMs   *int      `json:"tickMs,omitempty"`
	LogLevel string    `json:"logLevel,omitempty"`
}

func handleStats(match MatchControl, metrics *game.Metrics, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"mode":       match.Mode(),
			"spectators": hub.Spectators(),
			"metrics":    metrics.Snapshot(),
		})
	}
}

func handleGetConfig(match MatchControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms := int(match.TickInterval() / time.Millisecond)
		writeJSON(w, http.StatusOK, configPayload{Mode: match.Mode(), TickMs: &ms, LogLevel: LogLevel()})
	}
}

// handleSetConfig updates the log level and the tick interval. The tick change
// is queued and applied by the match loop before its next tick.
func handleSetConfig(match MatchControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body configPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.LogLevel != "" {
			if err := SetLogLevel(body.LogLevel); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			Log.Infof("config updated: log level=%s", LogLevel())
		}
		if body.TickMs == nil {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		if *body.TickMs <= 0 || *body.TickMs > 1000 {
			http.Error(w, "tickMs must be in (0, 1000]", http.StatusBadRequest)
			return
		}
		d := time.Duration(*body.TickMs) * time.Millisecond
		if !match.SetTickInterval(d) {
			http.Error(w, "match is busy, retry", http.StatusServiceUnavailable)
			return
		}
		Log.Infof("config updated: tick=%s", d)
		writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
