package game

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/samdwyer/pokebattle/internal/combat"
	"github.com/samdwyer/pokebattle/internal/entity"
	"github.com/samdwyer/pokebattle/internal/telemetry"
)

// maxRand always rolls the highest face: accuracy 100 hits a 100-accuracy
// move, the crit die never lands on 1 and the random policy picks the last slot.
type maxRand struct{}

func (maxRand) Intn(n int) int { return n - 1 }

// tackleDamage is BaseDamage(40, 50, 50) with a neutral type and no crit.
const tackleDamage = 21

func testCreature(name string, hp int) *entity.Creature {
	return &entity.Creature{
		ID:      strings.ToLower(name),
		Name:    name,
		Types:   []string{"normal"},
		MaxHP:   hp,
		HP:      hp,
		Attack:  50,
		Defense: 50,
		Speed:   50,
		Moves: []*entity.Move{
			{Name: "Tackle", Power: 40, Accuracy: 100, Type: "normal", MaxUses: 35, RemainingUses: 35},
		},
	}
}

// testRoster builds a team named prefix1, prefix2, ... with the given HP.
func testRoster(prefix string, hps ...int) *entity.Roster {
	team := make([]*entity.Creature, len(hps))
	for i, hp := range hps {
		team[i] = testCreature(fmt.Sprintf("%s%d", prefix, i+1), hp)
	}
	return entity.NewRoster("", team)
}

func testOptions() Options {
	return Options{
		NewRand: func(int64) (combat.RandomSource, error) { return maxRand{}, nil },
		Tracer:  telemetry.NoopTracer(),
	}
}

// newTestBattle creates an active battle in a fresh registry.
func newTestBattle(t *testing.T, opts Options, challenger, opponent *entity.Roster) (*Registry, string) {
	t.Helper()
	reg := NewRegistry(opts)
	id, err := reg.Create(context.Background(), challenger, opponent)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return reg, id
}

func mustGet(t *testing.T, reg *Registry, id string) *Battle {
	t.Helper()
	b, err := reg.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get(%s) error = %v", id, err)
	}
	return b
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusPending, "pending"},
		{StatusActive, "active"},
		{StatusConcluded, "concluded"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestCreateStartsActiveWithChallengerToMove(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100, 100, 100), testRoster("C", 100, 100, 100))
	b := mustGet(t, reg, id)

	if b.Status != StatusActive {
		t.Errorf("Status = %v, want active", b.Status)
	}
	if b.Turn != entity.SideChallenger {
		t.Errorf("Turn = %q, want challenger", b.Turn)
	}
	if len(b.Log) != 0 {
		t.Errorf("Log = %v, want empty", b.Log)
	}
	if b.Winner != "" {
		t.Errorf("Winner = %q before conclusion", b.Winner)
	}
	if b.Challenger.Side != entity.SideChallenger || b.Opponent.Side != entity.SideOpponent {
		t.Errorf("roster sides = %q/%q", b.Challenger.Side, b.Opponent.Side)
	}
}

func TestAttackFoldsAutomatedReply(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), testRoster("C", 100))

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}

	if !res.Outcome.Hit || res.Outcome.Damage != tackleDamage {
		t.Errorf("Outcome = %+v, want hit for %d", res.Outcome, tackleDamage)
	}
	if res.Reply == nil || res.Reply.Outcome == nil {
		t.Fatalf("Reply = %+v, want automated attack", res.Reply)
	}
	if res.Reply.Side != entity.SideOpponent || res.Reply.Outcome.Damage != tackleDamage {
		t.Errorf("Reply = %+v", res.Reply)
	}

	b := res.Battle
	if b.Turn != entity.SideChallenger {
		t.Errorf("Turn = %q, want challenger after reply", b.Turn)
	}
	if b.TurnCount != 2 {
		t.Errorf("TurnCount = %d, want 2", b.TurnCount)
	}
	if got := b.Opponent.ActiveCreature().HP; got != 100-tackleDamage {
		t.Errorf("opponent HP = %d, want %d", got, 100-tackleDamage)
	}
	if got := b.Challenger.ActiveCreature().HP; got != 100-tackleDamage {
		t.Errorf("challenger HP = %d, want %d", got, 100-tackleDamage)
	}

	wantLog := []string{
		"P1 used Tackle!",
		"C1 took 21 damage!",
		"C1 used Tackle!",
		"P1 took 21 damage!",
	}
	if !reflect.DeepEqual(b.Log, wantLog) {
		t.Errorf("Log = %q, want %q", b.Log, wantLog)
	}
}

func TestAttackSpendsUse(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), testRoster("C", 100))

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	if got := res.Battle.Challenger.ActiveCreature().Moves[0].RemainingUses; got != 34 {
		t.Errorf("challenger uses = %d, want 34", got)
	}
	if got := res.Battle.Opponent.ActiveCreature().Moves[0].RemainingUses; got != 34 {
		t.Errorf("opponent uses = %d, want 34", got)
	}
}

func TestAttackValidation(t *testing.T) {
	tests := []struct {
		name      string
		attacker  entity.Side
		defender  entity.Side
		moveIndex int
	}{
		{"same side", entity.SideChallenger, entity.SideChallenger, 0},
		{"unknown side", entity.Side("bogus"), entity.SideOpponent, 0},
		{"wrong turn", entity.SideOpponent, entity.SideChallenger, 0},
		{"index too high", entity.SideChallenger, entity.SideOpponent, 1},
		{"negative index", entity.SideChallenger, entity.SideOpponent, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), testRoster("C", 100))
			before := mustGet(t, reg, id)

			_, err := reg.Attack(context.Background(), id, tt.attacker, tt.defender, tt.moveIndex)
			if !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("Attack() error = %v, want ErrInvalidMove", err)
			}
			after := mustGet(t, reg, id)
			if !reflect.DeepEqual(before, after) {
				t.Errorf("rejected attack mutated the battle")
			}
		})
	}
}

func TestAttackConcludesOnElimination(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), testRoster("C", 15))

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}

	if !res.Outcome.TargetFainted {
		t.Error("expected target to faint")
	}
	if res.Outcome.Damage != 15 {
		t.Errorf("Damage = %d, want 15 (HP lost, clamped)", res.Outcome.Damage)
	}
	if res.Reply != nil {
		t.Errorf("Reply = %+v, want none after conclusion", res.Reply)
	}

	b := res.Battle
	if b.Status != StatusConcluded {
		t.Errorf("Status = %v, want concluded", b.Status)
	}
	if b.Winner != entity.SideChallenger {
		t.Errorf("Winner = %q, want challenger", b.Winner)
	}
	if got := b.Log[len(b.Log)-1]; got != "Player wins!" {
		t.Errorf("last log line = %q, want %q", got, "Player wins!")
	}
	if got := b.Log[len(b.Log)-2]; got != "C1 fainted!" {
		t.Errorf("faint line = %q", got)
	}
}

func TestConcludedBattleRejectsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100, 100), testRoster("C", 15))

	if _, err := reg.Attack(ctx, id, entity.SideChallenger, entity.SideOpponent, 0); err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	before := mustGet(t, reg, id)

	if _, err := reg.Attack(ctx, id, entity.SideChallenger, entity.SideOpponent, 0); !errors.Is(err, ErrConcluded) {
		t.Errorf("Attack() after conclusion error = %v, want ErrConcluded", err)
	}
	if _, err := reg.Switch(ctx, id, entity.SideChallenger, 1); !errors.Is(err, ErrConcluded) {
		t.Errorf("Switch() after conclusion error = %v, want ErrConcluded", err)
	}
	if _, err := reg.OpponentTurn(ctx, id); !errors.Is(err, ErrConcluded) {
		t.Errorf("OpponentTurn() after conclusion error = %v, want ErrConcluded", err)
	}

	after := mustGet(t, reg, id)
	if !reflect.DeepEqual(before, after) {
		t.Error("rejected operations mutated a concluded battle")
	}
}

func TestOpponentWinsWhenChallengerEliminated(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 15), testRoster("C", 100))

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	if res.Reply == nil || res.Reply.Outcome == nil || !res.Reply.Outcome.TargetFainted {
		t.Fatalf("Reply = %+v, want fainting attack", res.Reply)
	}
	if res.Battle.Status != StatusConcluded || res.Battle.Winner != entity.SideOpponent {
		t.Errorf("Status/Winner = %v/%q, want concluded/opponent", res.Battle.Status, res.Battle.Winner)
	}
	if got := res.Battle.Log[len(res.Battle.Log)-1]; got != "CPU wins!" {
		t.Errorf("last log line = %q", got)
	}
}

func TestConcludeHappensOnce(t *testing.T) {
	ctx := context.Background()
	rt := &runtime{tracer: telemetry.NoopTracer()}
	b := newBattle("b1", time.Now())
	if err := b.attach(ctx, testRoster("P", 10), testRoster("C", 10)); err != nil {
		t.Fatalf("attach() error = %v", err)
	}

	b.conclude(ctx, rt, entity.SideChallenger)
	b.conclude(ctx, rt, entity.SideOpponent)

	if b.Winner != entity.SideChallenger {
		t.Errorf("Winner = %q, want first conclusion to stick", b.Winner)
	}
	wins := 0
	for _, line := range b.Log {
		if strings.HasSuffix(line, "wins!") {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("found %d win lines, want 1", wins)
	}
}

func TestOpponentForcedReplacement(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), testRoster("C", 15, 100))

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	if res.Battle.Status != StatusActive {
		t.Fatalf("Status = %v, want active while C2 lives", res.Battle.Status)
	}
	if res.Reply == nil || res.Reply.SwitchedTo == nil || *res.Reply.SwitchedTo != 1 {
		t.Fatalf("Reply = %+v, want forced switch to 1", res.Reply)
	}
	if res.Reply.Outcome != nil {
		t.Error("forced switch should consume the turn without attacking")
	}
	if res.Battle.Opponent.Active != 1 {
		t.Errorf("opponent Active = %d, want 1", res.Battle.Opponent.Active)
	}
	if res.Battle.Turn != entity.SideChallenger {
		t.Errorf("Turn = %q, want challenger", res.Battle.Turn)
	}
	if got := res.Battle.Log[len(res.Battle.Log)-1]; got != "CPU sent out C2!" {
		t.Errorf("last log line = %q", got)
	}
}

func TestChallengerReplacesFaintedCreature(t *testing.T) {
	ctx := context.Background()
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 15, 100), testRoster("C", 100))

	if _, err := reg.Attack(ctx, id, entity.SideChallenger, entity.SideOpponent, 0); err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	b := mustGet(t, reg, id)
	if b.Challenger.ActiveCreature().IsAlive() {
		t.Fatal("expected P1 to have fainted from the reply")
	}
	if b.Status != StatusActive {
		t.Fatalf("Status = %v, want active", b.Status)
	}

	if _, err := reg.Attack(ctx, id, entity.SideChallenger, entity.SideOpponent, 0); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Attack() with fainted active error = %v, want ErrInvalidMove", err)
	}

	if _, err := reg.Switch(ctx, id, entity.SideChallenger, 0); !errors.Is(err, ErrInvalidSwitch) {
		t.Errorf("Switch() to fainted error = %v, want ErrInvalidSwitch", err)
	}
	if got := mustGet(t, reg, id).Challenger.Active; got != 0 {
		t.Errorf("Active = %d after rejected switch, want 0", got)
	}

	sw, err := reg.Switch(ctx, id, entity.SideChallenger, 1)
	if err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	if sw.Reply != nil {
		t.Errorf("Reply = %+v, want none without ReplyOnSwitch", sw.Reply)
	}
	if sw.Battle.Turn != entity.SideOpponent {
		t.Errorf("Turn = %q, want opponent after switch", sw.Battle.Turn)
	}
	if got := sw.Battle.Log[len(sw.Battle.Log)-1]; got != "Player sent out P2!" {
		t.Errorf("last log line = %q", got)
	}

	// Challenger cannot act out of turn.
	if _, err := reg.Attack(ctx, id, entity.SideChallenger, entity.SideOpponent, 0); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Attack() out of turn error = %v, want ErrInvalidMove", err)
	}

	res, err := reg.OpponentTurn(ctx, id)
	if err != nil {
		t.Fatalf("OpponentTurn() error = %v", err)
	}
	if !res.Outcome.Hit || res.Outcome.Defender != "P2" {
		t.Errorf("Outcome = %+v, want hit on P2", res.Outcome)
	}
	if res.Battle.Turn != entity.SideChallenger {
		t.Errorf("Turn = %q, want challenger", res.Battle.Turn)
	}
}

func TestSwitchValidation(t *testing.T) {
	tests := []struct {
		name  string
		side  entity.Side
		index int
	}{
		{"already active", entity.SideChallenger, 0},
		{"out of range", entity.SideChallenger, 3},
		{"negative", entity.SideChallenger, -1},
		{"wrong turn", entity.SideOpponent, 1},
		{"unknown side", entity.Side("bogus"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, id := newTestBattle(t, testOptions(), testRoster("P", 100, 100, 100), testRoster("C", 100, 100))
			_, err := reg.Switch(context.Background(), id, tt.side, tt.index)
			if !errors.Is(err, ErrInvalidSwitch) {
				t.Errorf("Switch() error = %v, want ErrInvalidSwitch", err)
			}
			if got := mustGet(t, reg, id).TurnCount; got != 0 {
				t.Errorf("TurnCount = %d after rejected switch", got)
			}
		})
	}
}

func TestReplyOnSwitch(t *testing.T) {
	opts := testOptions()
	opts.ReplyOnSwitch = true
	reg, id := newTestBattle(t, opts, testRoster("P", 100, 100), testRoster("C", 100))

	res, err := reg.Switch(context.Background(), id, entity.SideChallenger, 1)
	if err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	if res.Reply == nil || res.Reply.Outcome == nil {
		t.Fatalf("Reply = %+v, want automated attack", res.Reply)
	}
	if res.Reply.Outcome.Defender != "P2" {
		t.Errorf("reply hit %q, want P2", res.Reply.Outcome.Defender)
	}
	if res.Battle.Turn != entity.SideChallenger {
		t.Errorf("Turn = %q, want challenger", res.Battle.Turn)
	}
	if got := res.Battle.Challenger.Team[1].HP; got != 100-tackleDamage {
		t.Errorf("P2 HP = %d, want %d", got, 100-tackleDamage)
	}
}

func TestOpponentTurnOutOfTurn(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), testRoster("C", 100))
	if _, err := reg.OpponentTurn(context.Background(), id); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("OpponentTurn() error = %v, want ErrInvalidMove", err)
	}
}

func TestMissIsLogged(t *testing.T) {
	challenger := testRoster("P", 100)
	challenger.Team[0].Moves[0].Accuracy = 50
	reg, id := newTestBattle(t, testOptions(), challenger, testRoster("C", 100))

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	if res.Outcome.Hit {
		t.Fatal("roll of 100 should miss a 50-accuracy move")
	}
	if got := res.Battle.Log[1]; got != "P1's attack missed!" {
		t.Errorf("miss line = %q", got)
	}
	if got := res.Battle.Challenger.ActiveCreature().Moves[0].RemainingUses; got != 34 {
		t.Errorf("uses after miss = %d, want 34", got)
	}
}

func TestEffectivenessIsLogged(t *testing.T) {
	challenger := testRoster("P", 100)
	challenger.Team[0].Moves[0] = &entity.Move{Name: "Ember", Power: 40, Accuracy: 100, Type: "fire", MaxUses: 25, RemainingUses: 25}
	opponent := testRoster("C", 100)
	opponent.Team[0].Types = []string{"grass"}
	reg, id := newTestBattle(t, testOptions(), challenger, opponent)

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	if res.Outcome.Damage != 2*tackleDamage {
		t.Errorf("Damage = %d, want %d", res.Outcome.Damage, 2*tackleDamage)
	}
	if got := res.Battle.Log[1]; got != "It's super effective!" {
		t.Errorf("effectiveness line = %q", got)
	}
}

func TestImmuneHitLogsNoDamage(t *testing.T) {
	opponent := testRoster("C", 100)
	opponent.Team[0].Types = []string{"ghost"}
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), opponent)

	res, err := reg.Attack(context.Background(), id, entity.SideChallenger, entity.SideOpponent, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	if !res.Outcome.Hit || res.Outcome.Damage != 0 {
		t.Errorf("outcome = %+v, want a hit for 0", res.Outcome)
	}
	want := []string{"P1 used Tackle!", "It had no effect."}
	if got := res.Battle.Log[:2]; !reflect.DeepEqual(got, want) {
		t.Errorf("log = %q, want prefix %q", res.Battle.Log, want)
	}
	for _, line := range res.Battle.Log {
		if line == "C1 took 0 damage!" {
			t.Errorf("immune hit logged a damage line: %q", res.Battle.Log)
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	reg, id := newTestBattle(t, testOptions(), testRoster("P", 100), testRoster("C", 100))

	snap := mustGet(t, reg, id)
	snap.Challenger.Team[0].HP = 1
	snap.Challenger.Team[0].Moves[0].RemainingUses = 0
	snap.Log = append(snap.Log, "tampered")

	fresh := mustGet(t, reg, id)
	if fresh.Challenger.Team[0].HP != 100 {
		t.Error("snapshot HP change leaked into the battle")
	}
	if fresh.Challenger.Team[0].Moves[0].RemainingUses != 35 {
		t.Error("snapshot uses change leaked into the battle")
	}
	if len(fresh.Log) != 0 {
		t.Error("snapshot log change leaked into the battle")
	}
}

func TestAttachRejectsIncompleteRosters(t *testing.T) {
	empty := entity.NewRoster("", nil)
	noMoves := testRoster("P", 100)
	noMoves.Team[0].Moves = nil

	tests := []struct {
		name       string
		challenger *entity.Roster
		opponent   *entity.Roster
	}{
		{"nil challenger", nil, testRoster("C", 100)},
		{"nil opponent", testRoster("P", 100), nil},
		{"empty team", empty, testRoster("C", 100)},
		{"creature without moves", noMoves, testRoster("C", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBattle("b1", time.Now())
			err := b.attach(context.Background(), tt.challenger, tt.opponent)
			if !errors.Is(err, ErrRosterIncomplete) {
				t.Errorf("attach() error = %v, want ErrRosterIncomplete", err)
			}
			if b.Status != StatusPending {
				t.Errorf("Status = %v, want pending", b.Status)
			}
		})
	}
}
