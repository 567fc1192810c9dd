package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/samdwyer/pokebattle/internal/entity"
	"github.com/samdwyer/pokebattle/internal/game"
)

// kindInvalidRequest covers malformed bodies and parameters.
const kindInvalidRequest = "INVALID_REQUEST"

type startRequest struct {
	PlayerPokemon []int `json:"playerPokemon"`
	CpuPokemon    []int `json:"cpuPokemon"`
}

type startResponse struct {
	GameID string `json:"gameId"`
}

type moveRequest struct {
	AttackerID string `json:"attackerId"`
	DefenderID string `json:"defenderId"`
	MoveIndex  int    `json:"moveIndex"`
}

type switchRequest struct {
	PlayerID     string `json:"playerId"`
	PokemonIndex int    `json:"pokemonIndex"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "battles": s.registry.Len()})
}

func (s *Server) handleRandomCreatures(w http.ResponseWriter, r *http.Request) {
	count := defaultRandomCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRandomCount {
			writeErrorKind(w, http.StatusBadRequest, kindInvalidRequest, fmt.Sprintf("count must be 1..%d", maxRandomCount))
			return
		}
		count = n
	}

	creatures, err := s.provider.Random(r.Context(), count)
	if err != nil {
		s.logger.Error().Err(err).Int("count", count).Msg("random creatures failed")
		writeErrorKind(w, http.StatusBadGateway, "PROVIDER_UNAVAILABLE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, creatures)
}

func (s *Server) handleListBattles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"gameIds": s.registry.IDs()})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := checkTeam("playerPokemon", req.PlayerPokemon); err != nil {
		writeErrorKind(w, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}
	if err := checkTeam("cpuPokemon", req.CpuPokemon); err != nil {
		writeErrorKind(w, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}

	challengerIDs, opponentIDs := idStrings(req.PlayerPokemon), idStrings(req.CpuPokemon)
	id, err := s.registry.CreateAsync(r.Context(), func(ctx context.Context) (*entity.Roster, *entity.Roster, error) {
		challenger, err := s.provider.Roster(ctx, entity.SideChallenger, challengerIDs)
		if err != nil {
			return nil, nil, err
		}
		opponent, err := s.provider.Roster(ctx, entity.SideOpponent, opponentIDs)
		if err != nil {
			return nil, nil, err
		}
		return challenger, opponent, nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, startResponse{GameID: id})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	b, err := s.registry.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.registry.Attack(r.Context(), r.PathValue("id"), parseSide(req.AttackerID), parseSide(req.DefenderID), req.MoveIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.registry.Switch(r.Context(), r.PathValue("id"), parseSide(req.PlayerID), req.PokemonIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOpponentTurn(w http.ResponseWriter, r *http.Request) {
	res, err := s.registry.OpponentTurn(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// Helpers
// =============================================================================

// parseSide maps client names to sides. Unknown names pass through so the
// engine rejects them with its own error kind.
func parseSide(raw string) entity.Side {
	if side, ok := entity.ParseSide(raw); ok {
		return side
	}
	return entity.Side(raw)
}

func checkTeam(field string, ids []int) error {
	if len(ids) == 0 {
		return fmt.Errorf("%s must list at least one creature", field)
	}
	if len(ids) > entity.MaxTeamSize {
		return fmt.Errorf("%s lists %d creatures, max %d", field, len(ids), entity.MaxTeamSize)
	}
	return nil
}

func idStrings(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}

// statusFor maps battle error kinds to HTTP status codes.
func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindInvalidMove, game.KindInvalidSwitch:
		return http.StatusBadRequest
	case game.KindRosterIncomplete, game.KindConcluded:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := game.KindOf(err)
	if kind == "" {
		writeErrorKind(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeErrorKind(w, statusFor(kind), string(kind), err.Error())
}

func writeErrorKind(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		msg := "invalid request body"
		if errors.As(err, &syntaxErr) {
			msg = fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
		}
		writeErrorKind(w, http.StatusBadRequest, kindInvalidRequest, msg)
		return false
	}
	return true
}
