package ui

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/pokebattle/internal/entity"
	"github.com/samdwyer/pokebattle/internal/game"
	"github.com/samdwyer/pokebattle/internal/gamedata"
	"github.com/samdwyer/pokebattle/internal/telemetry"
)

// Mode selects what the number keys do.
type Mode int

const (
	// ModeMoves - number keys pick a move
	ModeMoves Mode = iota
	// ModeSwitch - number keys pick a creature to send out
	ModeSwitch
)

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeMoves:
		return "Moves"
	case ModeSwitch:
		return "Switch"
	default:
		return "Unknown"
	}
}

// App plays one battle in the terminal as the challenger.
type App struct {
	screen   *Screen
	renderer *Renderer
	registry *game.Registry
	battleID string
	tracer   trace.Tracer
	mode     Mode
	message  string
	running  bool
}

// NewApp opens the terminal and prepares to play battleID.
func NewApp(registry *game.Registry, battleID string, types *gamedata.TypeRegistry) (*App, error) {
	screen, err := NewScreen()
	if err != nil {
		return nil, err
	}
	a := newApp(registry, battleID)
	a.screen = screen
	a.renderer = NewRenderer(screen, types)
	return a, nil
}

// newApp builds an app without a screen; input handling works on its own.
func newApp(registry *game.Registry, battleID string) *App {
	return &App{
		registry: registry,
		battleID: battleID,
		tracer:   telemetry.Tracer("ui"),
		mode:     ModeMoves,
		running:  true,
	}
}

// Run executes the input loop until the player quits.
func (a *App) Run(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "ui.session")
	span.SetAttributes(attribute.String("battle.id", a.battleID))
	defer span.End()
	defer a.screen.Close()

	a.renderer.Render(View{})
	if err := a.registry.Await(ctx, a.battleID); err != nil {
		return err
	}

	for a.running {
		v, err := a.view(ctx)
		if err != nil {
			return err
		}
		a.renderer.Render(v)
		a.handleInput(ctx)
	}
	return nil
}

// view snapshots the battle for rendering.
func (a *App) view(ctx context.Context) (View, error) {
	b, err := a.registry.Get(ctx, a.battleID)
	if err != nil {
		return View{}, err
	}
	return View{Battle: b, Mode: a.mode, Message: a.message}, nil
}

// handleInput processes a single input event.
func (a *App) handleInput(ctx context.Context) {
	ev := a.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ctx, ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

// handleKey processes keyboard input.
func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.running = false
	case tcell.KeyEscape:
		a.escape()
	case tcell.KeyRune:
		a.handleRune(ctx, ev.Rune())
	}
}

// escape backs out of switch mode, or quits from the move menu.
func (a *App) escape() {
	if a.mode == ModeSwitch {
		a.mode = ModeMoves
		a.message = ""
		return
	}
	a.running = false
}

// handleRune maps character keys to battle operations.
func (a *App) handleRune(ctx context.Context, r rune) {
	switch {
	case r == 'q' || r == 'Q':
		a.running = false
	case r == 's' || r == 'S':
		a.mode = ModeSwitch
		a.message = ""
	case r == 'c' || r == 'C':
		_, err := a.registry.OpponentTurn(ctx, a.battleID)
		a.report(err)
	case r >= '1' && r <= '9':
		a.choose(ctx, int(r-'1'))
	}
}

// choose runs the numbered action for the current mode.
func (a *App) choose(ctx context.Context, index int) {
	if a.mode == ModeSwitch {
		_, err := a.registry.Switch(ctx, a.battleID, entity.SideChallenger, index)
		if err == nil {
			a.mode = ModeMoves
		}
		a.report(err)
		return
	}
	_, err := a.registry.Attack(ctx, a.battleID, entity.SideChallenger, entity.SideOpponent, index)
	a.report(err)
}

// report shows a rejected action in the footer, or clears it.
func (a *App) report(err error) {
	if err == nil {
		a.message = ""
		return
	}
	var ge *game.Error
	if errors.As(err, &ge) {
		a.message = ge.Message
		return
	}
	a.message = err.Error()
}
