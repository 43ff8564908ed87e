package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Picture Match API", "/openapi.json", "/docs"))
	if deps.Health != nil {
		r.Mount("/healthz", deps.Health)
	}

	// Asset provider.
	r.Get("/assets", handleAssetList(deps.Catalog))
	r.Get("/assets/*", handleAssetFile(deps.Catalog.Dir()))

	r.Get("/api/pairs", handlePairs(deps.Catalog))

	r.Post("/api/sessions", handleCreateSession(deps.Sessions))
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Sessions))
		r.Get("/", handleGetSession())
		r.Delete("/", handleDeleteSession(deps.Sessions))
		r.Post("/select", handleSelect())
		r.Get("/events", handleEvents(deps.Broker))
		r.Get("/ws", handlePlay(logger, deps.Broker))
	})

	r.Route("/api/scores", func(r chi.Router) {
		r.Use(scoresAuthMiddleware(deps.AdminPasswordHash))
		r.Get("/", handleListScores(deps.Scores))
		r.Get("/{scoreID}", handleGetScore(deps.Scores))
	})
}
