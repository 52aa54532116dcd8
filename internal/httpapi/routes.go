package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dungeonmaster/dicetower-backend/internal/ws"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Post("/detect", s.handleDetect)

	r.Get("/roll", s.handleGetRoll)
	r.Post("/roll", s.handleSetRoll)
	r.Delete("/roll", s.handleClearRoll)

	r.Get("/player-screen-mode", s.handleGetScreenMode)
	r.Post("/player-screen-mode", s.handleSetScreenMode)
	r.Post("/youtube-playback", s.handlePlayback)

	r.Get("/ws/roll", ws.Handler(s.hub, s.joinSubscriber, s.log))

	return r
}
