package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
	"golang.org/x/sync/singleflight"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB, spaDir string) {
	broker := NewBroker()

	// One in-flight reveal per submission; concurrent guess arrivals and
	// explicit reveal requests share a single storage round-trip.
	reveals := &singleflight.Group{}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("SnapGuess API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws/echo", handleWSEcho(logger))

	// Room lifecycle — public, pre-session.
	r.Post("/api/rooms", handleCreateRoom(logger, store))
	r.Get("/api/rooms/{code}", handleGetRoom(store))
	r.Post("/api/rooms/{code}/join", handleJoin(store, broker))

	// Game actions — session token required.
	r.Route("/api/game", func(r chi.Router) {
		r.Get("/state", handleGameState(store))
		r.Get("/scores", handleScores(store))
		r.Get("/guesses", handleListGuesses(store))
		r.Post("/start-submission", handleStartSubmission(store, broker))
		r.Post("/photo", handleSubmitPhoto(store, broker))
		r.Post("/start-playing", handleStartPlaying(store, broker))
		r.Post("/guess", handleSubmitGuess(logger, store, broker, reveals))
		r.Post("/reveal", handleReveal(store, broker, reveals))
		r.Post("/advance", handleAdvance(store, broker))
		r.Post("/restart", handleRestart(store, broker))
		r.Get("/events", handleEvents(store, broker))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
