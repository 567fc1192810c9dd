package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/samdwyer/pokebattle/internal/game"
)

const (
	wsReadLimit    = 4096
	wsWriteTimeout = 10 * time.Second
)

// Websocket command types.
const (
	cmdState  = "state"
	cmdMove   = "move"
	cmdSwitch = "switch"
	cmdCPU    = "cpu"
)

// wsCommand is one client message. Fields not used by a command type are ignored.
type wsCommand struct {
	Type         string `json:"type"`
	AttackerID   string `json:"attackerId,omitempty"`
	DefenderID   string `json:"defenderId,omitempty"`
	MoveIndex    int    `json:"moveIndex,omitempty"`
	PlayerID     string `json:"playerId,omitempty"`
	PokemonIndex int    `json:"pokemonIndex,omitempty"`
}

// wsReply answers one command with the same payload the HTTP route returns.
type wsReply struct {
	Type  string         `json:"type"`
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	// Reject unknown battles before upgrading so clients get a plain 404.
	if _, err := s.registry.Get(r.Context(), id); errors.Is(err, game.ErrNotFound) {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("battle_id", id).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	log := s.logger.With().Str("battle_id", id).Logger()
	log.Debug().Msg("websocket connected")

	ctx := context.WithoutCancel(r.Context())
	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		reply := s.dispatch(ctx, id, cmd)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

// dispatch runs one websocket command against the registry.
func (s *Server) dispatch(ctx context.Context, id string, cmd wsCommand) wsReply {
	var (
		data any
		err  error
	)
	switch cmd.Type {
	case cmdState:
		data, err = s.registry.Get(ctx, id)
	case cmdMove:
		data, err = s.registry.Attack(ctx, id, parseSide(cmd.AttackerID), parseSide(cmd.DefenderID), cmd.MoveIndex)
	case cmdSwitch:
		data, err = s.registry.Switch(ctx, id, parseSide(cmd.PlayerID), cmd.PokemonIndex)
	case cmdCPU:
		data, err = s.registry.OpponentTurn(ctx, id)
	default:
		return wsReply{Type: cmd.Type, Error: &errorResponse{Error: kindInvalidRequest, Message: "unknown command type " + cmd.Type}}
	}

	if err != nil {
		kind := string(game.KindOf(err))
		if kind == "" {
			kind = "INTERNAL"
		}
		return wsReply{Type: cmd.Type, Error: &errorResponse{Error: kind, Message: err.Error()}}
	}
	return wsReply{Type: cmd.Type, Data: data}
}
