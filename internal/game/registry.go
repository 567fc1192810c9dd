package game

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/pokebattle/internal/combat"
	"github.com/samdwyer/pokebattle/internal/entity"
)

// LoadFunc fetches both rosters for an asynchronously created battle.
type LoadFunc func(ctx context.Context) (challenger, opponent *entity.Roster, err error)

// Registry owns every battle in the process. Lookups and inserts go through
// a shared map lock; each battle has its own lock so mutations on one battle
// are serialized without blocking others.
type Registry struct {
	mu      sync.RWMutex
	battles map[string]*entry

	opts    Options
	seedSeq atomic.Int64
}

// entry is one battle plus its lock and collaborators.
type entry struct {
	mu      sync.Mutex
	battle  *Battle
	rt      *runtime
	loadErr error
	loaded  chan struct{} // closed once rosters are attached or loading failed
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		battles: make(map[string]*entry),
		opts:    opts.withDefaults(),
	}
}

// Create registers a battle between two fully loaded rosters and activates it.
func (r *Registry) Create(ctx context.Context, challenger, opponent *entity.Roster) (string, error) {
	ctx, span := r.opts.Tracer.Start(ctx, "battle.create")
	defer span.End()

	e, err := r.reserve()
	if err != nil {
		return "", err
	}
	id := e.battle.ID
	span.SetAttributes(attribute.String("battle.id", id))

	e.mu.Lock()
	err = r.attach(ctx, e, challenger, opponent)
	close(e.loaded)
	e.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		r.remove(id)
		return "", err
	}
	return id, nil
}

// CreateAsync reserves a pending battle and loads its rosters in the
// background. Until loading finishes, operations on the id fail with
// ErrRosterIncomplete; a failed load keeps failing with the load error.
func (r *Registry) CreateAsync(ctx context.Context, load LoadFunc) (string, error) {
	e, err := r.reserve()
	if err != nil {
		return "", err
	}
	id := e.battle.ID

	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, span := r.opts.Tracer.Start(ctx, "battle.create")
		span.SetAttributes(attribute.String("battle.id", id), attribute.Bool("async", true))
		defer span.End()

		challenger, opponent, err := load(ctx)

		e.mu.Lock()
		defer e.mu.Unlock()
		defer close(e.loaded)
		if err != nil {
			e.loadErr = err
			span.RecordError(err)
			r.opts.Logger.Error().Err(err).Str("battle_id", id).Msg("roster load failed")
			return
		}
		if err := r.attach(ctx, e, challenger, opponent); err != nil {
			e.loadErr = err
			span.RecordError(err)
		}
	}()
	return id, nil
}

// Await blocks until the battle's rosters are attached or loading failed.
func (r *Registry) Await(ctx context.Context, id string) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	select {
	case <-e.loaded:
	case <-ctx.Done():
		return ctx.Err()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readiness()
}

// Get returns a snapshot of the battle.
func (r *Registry) Get(ctx context.Context, id string) (*Battle, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.readiness(); err != nil {
		return nil, err
	}
	return e.battle.Snapshot(), nil
}

// Attack resolves attacker's move against defender, plus the automated
// opponent's reply when the turn passes to it.
func (r *Registry) Attack(ctx context.Context, id string, attacker, defender entity.Side, moveIndex int) (*AttackResult, error) {
	ctx, span := r.opts.Tracer.Start(ctx, "battle.attack", trace.WithAttributes(
		attribute.String("battle.id", id),
		attribute.String("attacker", string(attacker)),
		attribute.Int("move_index", moveIndex),
	))
	defer span.End()

	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.readiness(); err != nil {
		return nil, err
	}

	result, err := e.battle.attack(ctx, e.rt, attacker, defender, moveIndex)
	if err != nil {
		span.RecordError(err)
		r.opts.Logger.Debug().Err(err).Str("battle_id", id).Msg("attack rejected")
		return nil, err
	}
	r.logConcluded(e.battle)
	result.Battle = e.battle.Snapshot()
	return result, nil
}

// Switch changes side's active creature; it consumes side's turn.
func (r *Registry) Switch(ctx context.Context, id string, side entity.Side, index int) (*SwitchResult, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.readiness(); err != nil {
		return nil, err
	}

	result, err := e.battle.switchActive(ctx, e.rt, side, index)
	if err != nil {
		r.opts.Logger.Debug().Err(err).Str("battle_id", id).Msg("switch rejected")
		return nil, err
	}
	r.logConcluded(e.battle)
	result.Battle = e.battle.Snapshot()
	return result, nil
}

// OpponentTurn runs the automated side's move when it is its turn.
func (r *Registry) OpponentTurn(ctx context.Context, id string) (*AttackResult, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.readiness(); err != nil {
		return nil, err
	}

	result, err := e.battle.opponentTurn(ctx, e.rt)
	if err != nil {
		return nil, err
	}
	r.logConcluded(e.battle)
	result.Battle = e.battle.Snapshot()
	return result, nil
}

// Len returns the number of registered battles, including pending ones.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.battles)
}

// IDs returns all registered battle ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.battles))
	for id := range r.battles {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// =============================================================================
// Internals
// =============================================================================

// reserve inserts a new pending battle under a fresh id.
func (r *Registry) reserve() (*entry, error) {
	rng, err := r.opts.NewRand(r.seedSeq.Add(1))
	if err != nil {
		return nil, err
	}
	e := &entry{
		rt: &runtime{
			resolver:      combat.NewResolver(rng),
			policy:        r.opts.Policy,
			rng:           rng,
			replyOnSwitch: r.opts.ReplyOnSwitch,
			tracer:        r.opts.Tracer,
		},
		loaded: make(chan struct{}),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	for r.battles[id] != nil {
		id = uuid.NewString()
	}
	e.battle = newBattle(id, r.opts.Now())
	r.battles[id] = e
	return e, nil
}

// attach installs rosters on a reserved entry. Caller holds e.mu.
func (r *Registry) attach(ctx context.Context, e *entry, challenger, opponent *entity.Roster) error {
	if err := e.battle.attach(ctx, challenger, opponent); err != nil {
		r.opts.Logger.Warn().Err(err).Str("battle_id", e.battle.ID).Msg("rosters rejected")
		return err
	}
	r.opts.Logger.Info().
		Str("battle_id", e.battle.ID).
		Int("challenger_team", len(challenger.Team)).
		Int("opponent_team", len(opponent.Team)).
		Msg("battle active")
	return nil
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.battles[id]
	r.mu.RUnlock()
	if !ok {
		return nil, newError(KindNotFound, id, "battle not found")
	}
	return e, nil
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.battles, id)
}

func (r *Registry) logConcluded(b *Battle) {
	if b.Status != StatusConcluded {
		return
	}
	r.opts.Logger.Info().
		Str("battle_id", b.ID).
		Str("winner", string(b.Winner)).
		Int("turns", b.TurnCount).
		Msg("battle concluded")
}

// readiness reports whether the battle can be observed. Caller holds e.mu.
func (e *entry) readiness() error {
	if e.loadErr != nil {
		return wrapError(KindRosterIncomplete, e.battle.ID, "roster load failed", e.loadErr)
	}
	if e.battle.Status == StatusPending {
		return newError(KindRosterIncomplete, e.battle.ID, "rosters are still loading")
	}
	return nil
}
