// Package ops exposes the plain health/readiness listener that sits next to
// the main API, for load balancers and uptime checks.
package ops

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Pinger is anything that can report whether its backing connection is alive.
type Pinger interface {
	Ping() error
}

// NewHandler builds the ops router. /health is liveness, /ready also pings
// the database.
func NewHandler(db Pinger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if db != nil {
			if err := db.Ping(); err != nil {
				log.Error().Err(err).Msg("readiness check failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}).Methods(http.MethodGet)

	return r
}

// Serve starts the ops listener; it blocks, so run it in its own goroutine.
func Serve(addr string, db Pinger) error {
	log.Info().Str("addr", addr).Msg("starting ops listener")
	return http.ListenAndServe(addr, NewHandler(db))
}
