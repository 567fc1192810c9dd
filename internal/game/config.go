package game

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/pokebattle/internal/combat"
	"github.com/samdwyer/pokebattle/internal/telemetry"
)

// Options configures a Registry.
type Options struct {
	// Policy drives the automated opponent. Defaults to combat.RandomPolicy.
	Policy combat.Policy
	// ReplyOnSwitch makes a challenger switch trigger the automated reply,
	// the same way an attack does.
	ReplyOnSwitch bool
	// Seed makes battles reproducible. Battle n is seeded with Seed+n.
	// Zero draws a fresh seed per battle.
	Seed int64
	// NewRand builds each battle's random source; n counts battles from 1.
	// Overrides Seed when set.
	NewRand func(n int64) (combat.RandomSource, error)
	Logger  zerolog.Logger
	Tracer  trace.Tracer
	Now     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Policy == nil {
		o.Policy = combat.RandomPolicy{}
	}
	if o.NewRand == nil {
		if seed := o.Seed; seed != 0 {
			o.NewRand = func(n int64) (combat.RandomSource, error) {
				return rand.New(rand.NewSource(seed + n)), nil
			}
		} else {
			o.NewRand = func(int64) (combat.RandomSource, error) {
				return combat.NewRand(0)
			}
		}
	}
	if o.Tracer == nil {
		o.Tracer = telemetry.Tracer("battle")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
