// Package server exposes battles over HTTP and websockets.
package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/samdwyer/pokebattle/internal/game"
	"github.com/samdwyer/pokebattle/internal/gamedata"
)

const (
	// Selection list sizes for GET /api/pokemon/random.
	defaultRandomCount = 20
	maxRandomCount     = 50

	maxBodyBytes = 1 << 16
)

// Server routes HTTP requests to a battle registry.
type Server struct {
	registry *game.Registry
	provider gamedata.Provider
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// New creates a server. provider supplies rosters for new battles.
func New(registry *game.Registry, provider gamedata.Provider, logger zerolog.Logger) *Server {
	return &Server{
		registry: registry,
		provider: provider,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Any origin may connect, matching the CORS policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the routed handler with logging, recovery and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/pokemon/random", s.handleRandomCreatures)
	mux.HandleFunc("GET /api/game", s.handleListBattles)
	mux.HandleFunc("POST /api/game/start", s.handleStart)
	mux.HandleFunc("GET /api/game/{id}", s.handleGet)
	mux.HandleFunc("POST /api/game/{id}/move", s.handleMove)
	mux.HandleFunc("POST /api/game/{id}/switch", s.handleSwitch)
	mux.HandleFunc("POST /api/game/{id}/cpu", s.handleOpponentTurn)
	mux.HandleFunc("GET /api/game/{id}/ws", s.handleWebsocket)

	var h http.Handler = mux
	h = cors(h)
	h = s.recoverer(h)
	h = s.requestLogger(h)
	return h
}
