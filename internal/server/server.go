package server

import (
	"log"
	"net/http"

	"github.com/syeeel/meet-agent/internal/audio"
	"github.com/syeeel/meet-agent/internal/session"
)

// Config wires the websocket endpoint to the reply pipeline.
type Config struct {
	Runner   Runner
	Sessions *session.Manager
	Ingest   audio.IngestConfig
}

// Handler returns the HTTP routes: the websocket relay and a health probe.
func Handler(cfg Config) http.Handler {
	mux := http.NewServeMux()

	registerWSRoute(mux, cfg)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// Serve blocks serving the relay on addr.
func Serve(addr string, cfg Config) error {
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, Handler(cfg))
}
