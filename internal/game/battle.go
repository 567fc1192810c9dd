package game

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/pokebattle/internal/combat"
	"github.com/samdwyer/pokebattle/internal/entity"
)

// Battle holds all state for one two-sided battle.
type Battle struct {
	ID         string         `json:"gameId"`
	Challenger *entity.Roster `json:"player"`
	Opponent   *entity.Roster `json:"cpu"`
	Status     Status         `json:"status"`
	Turn       entity.Side    `json:"currentTurn,omitempty"` // Side to move while active
	Winner     entity.Side    `json:"winner,omitempty"`      // Set once concluded
	Log        []string       `json:"battleLog"`
	TurnCount  int            `json:"turnCount"`
	CreatedAt  time.Time      `json:"createdAt"`

	lifecycle *fsm.FSM
}

// Reply describes the automated side's action folded into a request.
type Reply struct {
	Side       entity.Side     `json:"side"`
	Outcome    *combat.Outcome `json:"outcome,omitempty"`    // Set when it attacked
	SwitchedTo *int            `json:"switchedTo,omitempty"` // Set when it replaced a fainted creature
}

// AttackResult is returned by attack and opponent-turn operations.
type AttackResult struct {
	Outcome combat.Outcome `json:"outcome"`
	Reply   *Reply         `json:"reply,omitempty"`
	Battle  *Battle        `json:"gameState"`
}

// SwitchResult is returned by switch operations.
type SwitchResult struct {
	Reply  *Reply  `json:"reply,omitempty"`
	Battle *Battle `json:"gameState"`
}

// runtime carries the per-battle collaborators.
type runtime struct {
	resolver      *combat.Resolver
	policy        combat.Policy
	rng           combat.RandomSource
	replyOnSwitch bool
	tracer        trace.Tracer
}

// newBattle allocates a pending battle.
func newBattle(id string, now time.Time) *Battle {
	b := &Battle{
		ID:        id,
		Status:    StatusPending,
		Log:       []string{},
		CreatedAt: now,
	}
	b.lifecycle = newLifecycle(func(s Status) { b.Status = s })
	return b
}

// attach installs copies of both rosters and activates the battle with the
// challenger to move. The caller keeps ownership of the rosters passed in.
func (b *Battle) attach(ctx context.Context, challenger, opponent *entity.Roster) error {
	challenger, opponent = challenger.Clone(), opponent.Clone()
	if challenger != nil {
		challenger.Side = entity.SideChallenger
		challenger.Active = 0
	}
	if opponent != nil {
		opponent.Side = entity.SideOpponent
		opponent.Active = 0
	}
	if err := challenger.Validate(); err != nil {
		return wrapError(KindRosterIncomplete, b.ID, "challenger roster", err)
	}
	if err := opponent.Validate(); err != nil {
		return wrapError(KindRosterIncomplete, b.ID, "opponent roster", err)
	}

	b.Challenger = challenger
	b.Opponent = opponent
	b.Turn = entity.SideChallenger
	if err := b.lifecycle.Event(ctx, eventActivate); err != nil {
		return wrapError(KindRosterIncomplete, b.ID, "activate", err)
	}
	return nil
}

// roster returns the roster for a side.
func (b *Battle) roster(side entity.Side) *entity.Roster {
	if side == entity.SideChallenger {
		return b.Challenger
	}
	return b.Opponent
}

// checkActive rejects operations outside the active phase.
func (b *Battle) checkActive() error {
	switch b.Status {
	case StatusPending:
		return newError(KindRosterIncomplete, b.ID, "rosters are still loading")
	case StatusConcluded:
		return newError(KindConcluded, b.ID, "battle already won by %s", b.Winner)
	}
	return nil
}

func (b *Battle) logf(format string, args ...any) {
	b.Log = append(b.Log, fmt.Sprintf(format, args...))
}

// passTurn hands the move to the other side.
func (b *Battle) passTurn() {
	b.Turn = b.Turn.Other()
	b.TurnCount++
}

// =============================================================================
// Operations
// =============================================================================

// attack runs one move for attacker against defender's active creature.
// When the turn passes to the automated opponent, its reply is resolved in
// the same call and the turn returns to the challenger.
func (b *Battle) attack(ctx context.Context, rt *runtime, attacker, defender entity.Side, moveIndex int) (*AttackResult, error) {
	if err := b.checkActive(); err != nil {
		return nil, err
	}
	if !attacker.Valid() || defender != attacker.Other() {
		return nil, newError(KindInvalidMove, b.ID, "%q cannot attack %q", attacker, defender)
	}
	if b.Turn != attacker {
		return nil, newError(KindInvalidMove, b.ID, "it is %s's turn", b.Turn)
	}
	user := b.roster(attacker).ActiveCreature()
	if !user.IsAlive() {
		return nil, newError(KindInvalidMove, b.ID, "%s has fainted and must be switched out", user.Name)
	}
	if user.Move(moveIndex) == nil {
		return nil, newError(KindInvalidMove, b.ID, "move index %d out of range for %s", moveIndex, user.Name)
	}
	if target := b.roster(defender).ActiveCreature(); !target.IsAlive() {
		return nil, newError(KindInvalidMove, b.ID, "%s has already fainted", target.Name)
	}

	result := &AttackResult{Outcome: b.executeMove(ctx, rt, attacker, moveIndex)}
	if b.Status != StatusActive {
		return result, nil
	}

	b.passTurn()
	if b.Turn == entity.SideOpponent {
		result.Reply = b.automatedTurn(ctx, rt)
	}
	return result, nil
}

// switchActive replaces side's active creature. Switching consumes the
// turn. It triggers the automated reply only when rt.replyOnSwitch is set;
// otherwise the caller drives the opponent with opponentTurn.
func (b *Battle) switchActive(ctx context.Context, rt *runtime, side entity.Side, index int) (*SwitchResult, error) {
	if err := b.checkActive(); err != nil {
		return nil, err
	}
	if !side.Valid() {
		return nil, newError(KindInvalidSwitch, b.ID, "unknown side %q", side)
	}
	if b.Turn != side {
		return nil, newError(KindInvalidSwitch, b.ID, "it is %s's turn", b.Turn)
	}
	r := b.roster(side)
	if index < 0 || index >= len(r.Team) {
		return nil, newError(KindInvalidSwitch, b.ID, "roster index %d out of range", index)
	}
	if !r.Team[index].IsAlive() {
		return nil, newError(KindInvalidSwitch, b.ID, "%s has fainted", r.Team[index].Name)
	}
	if index == r.Active {
		return nil, newError(KindInvalidSwitch, b.ID, "%s is already in battle", r.Team[index].Name)
	}

	b.swap(ctx, rt, side, index)

	result := &SwitchResult{}
	b.passTurn()
	if rt.replyOnSwitch && b.Turn == entity.SideOpponent {
		result.Reply = b.automatedTurn(ctx, rt)
	}
	return result, nil
}

// opponentTurn resolves the automated side's move on demand.
func (b *Battle) opponentTurn(ctx context.Context, rt *runtime) (*AttackResult, error) {
	if err := b.checkActive(); err != nil {
		return nil, err
	}
	if b.Turn != entity.SideOpponent {
		return nil, newError(KindInvalidMove, b.ID, "it is %s's turn", b.Turn)
	}
	if target := b.Challenger.ActiveCreature(); !target.IsAlive() {
		return nil, newError(KindInvalidMove, b.ID, "%s has already fainted", target.Name)
	}
	reply := b.automatedTurn(ctx, rt)
	result := &AttackResult{Reply: reply}
	if reply.Outcome != nil {
		result.Outcome = *reply.Outcome
	}
	return result, nil
}

// =============================================================================
// Turn internals
// =============================================================================

// automatedTurn plays the opponent's turn: a forced replacement when its
// active creature has fainted, otherwise a move picked by the policy.
// Either way the turn passes back to the challenger.
func (b *Battle) automatedTurn(ctx context.Context, rt *runtime) *Reply {
	side := entity.SideOpponent
	r := b.roster(side)
	reply := &Reply{Side: side}

	if !r.ActiveCreature().IsAlive() {
		next := r.FirstAlive()
		b.swap(ctx, rt, side, next)
		reply.SwitchedTo = &next
	} else {
		user := r.ActiveCreature()
		idx := rt.policy.ChooseMove(user, b.Challenger.ActiveCreature(), rt.rng)
		if user.Move(idx) == nil {
			panic(fmt.Sprintf("game: policy returned move index %d for %s with %d moves", idx, user.Name, len(user.Moves)))
		}
		out := b.executeMove(ctx, rt, side, idx)
		reply.Outcome = &out
	}

	if b.Status == StatusActive {
		b.passTurn()
	}
	return reply
}

// executeMove resolves one move, records it in the log and concludes the
// battle if the defending side has nothing left. The elimination check
// runs before any turn handoff.
func (b *Battle) executeMove(ctx context.Context, rt *runtime, side entity.Side, moveIndex int) combat.Outcome {
	user := b.roster(side).ActiveCreature()
	defending := b.roster(side.Other())
	target := defending.ActiveCreature()
	move := user.Moves[moveIndex]

	ctx, span := rt.tracer.Start(ctx, "battle.turn")
	defer span.End()

	out := rt.resolver.Resolve(user, target, move)

	b.logf("%s used %s!", user.Name, move.Name)
	switch {
	case !out.Hit:
		b.logf("%s's attack missed!", user.Name)
	case out.Status:
		b.logf("%s was not harmed.", target.Name)
	default:
		if phrase := combat.Describe(out.Effectiveness); phrase != "" {
			b.logf("%s", phrase)
		}
		if out.Effectiveness == combat.Immune {
			break
		}
		b.logf("%s took %d damage!", target.Name, out.Damage)
		if out.Critical {
			b.logf("Critical hit!")
		}
	}
	if out.TargetFainted {
		b.logf("%s fainted!", target.Name)
	}

	span.SetAttributes(
		attribute.String("battle.id", b.ID),
		attribute.String("actor", user.Name),
		attribute.String("side", string(side)),
		attribute.String("move", move.Name),
		attribute.String("target", target.Name),
		attribute.Bool("hit", out.Hit),
		attribute.Int("damage", out.Damage),
		attribute.Bool("critical", out.Critical),
		attribute.Float64("effectiveness", out.Effectiveness),
		attribute.Bool("fainted", out.TargetFainted),
		attribute.Int("turn", b.TurnCount),
	)

	if !defending.HasAliveCreature() {
		b.conclude(ctx, rt, side)
	}
	return out
}

// swap sets a new active creature for side and logs it.
func (b *Battle) swap(ctx context.Context, rt *runtime, side entity.Side, index int) {
	_, span := rt.tracer.Start(ctx, "battle.switch")
	defer span.End()

	r := b.roster(side)
	r.Active = index
	b.logf("%s sent out %s!", side.DisplayName(), r.Team[index].Name)

	span.SetAttributes(
		attribute.String("battle.id", b.ID),
		attribute.String("side", string(side)),
		attribute.String("creature", r.Team[index].Name),
	)
}

// conclude ends the battle with winner. The lifecycle rejects a second conclusion.
func (b *Battle) conclude(ctx context.Context, rt *runtime, winner entity.Side) {
	if err := b.lifecycle.Event(ctx, eventConclude); err != nil {
		return
	}
	b.Winner = winner
	b.logf("%s wins!", winner.DisplayName())

	_, span := rt.tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("battle.id", b.ID),
		attribute.String("winner", string(winner)),
		attribute.Int("turns_taken", b.TurnCount),
		attribute.Int("winner_hp_remaining", b.roster(winner).TotalHP()),
	)
	span.End()
}

// Snapshot returns a deep copy safe to hand to callers.
func (b *Battle) Snapshot() *Battle {
	out := &Battle{
		ID:        b.ID,
		Status:    b.Status,
		Turn:      b.Turn,
		Winner:    b.Winner,
		Log:       append([]string{}, b.Log...),
		TurnCount: b.TurnCount,
		CreatedAt: b.CreatedAt,
	}
	if b.Challenger != nil {
		out.Challenger = b.Challenger.Clone()
	}
	if b.Opponent != nil {
		out.Opponent = b.Opponent.Clone()
	}
	return out
}
