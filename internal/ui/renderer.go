package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/pokebattle/internal/entity"
	"github.com/samdwyer/pokebattle/internal/game"
	"github.com/samdwyer/pokebattle/internal/gamedata"
)

const (
	hpBarWidth = 20
	// Rows above the log: header, two creature panels and the action menu.
	logTop = 16
)

// View is everything the renderer needs for one frame.
type View struct {
	Battle  *game.Battle
	Mode    Mode
	Message string
}

// textLine is one positioned run of styled text.
type textLine struct {
	X, Y  int
	Text  string
	Style tcell.Style
}

// Renderer handles drawing battles to the screen.
type Renderer struct {
	screen *Screen
	types  *gamedata.TypeRegistry
}

// NewRenderer creates a renderer. types colors creature and move types.
func NewRenderer(screen *Screen, types *gamedata.TypeRegistry) *Renderer {
	return &Renderer{screen: screen, types: types}
}

// Render draws one frame.
func (r *Renderer) Render(v View) {
	r.screen.Clear()
	w, h := r.screen.Size()
	for _, l := range layout(v, r.types, w, h) {
		r.screen.DrawText(l.X, l.Y, l.Text, l.Style)
	}
	r.screen.Show()
}

// layout positions every line of a frame inside a width x height screen.
// Lines that would fall off the bottom are dropped.
func layout(v View, types *gamedata.TypeRegistry, width, height int) []textLine {
	plain := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	var lines []textLine
	add := func(x, y int, text string, style tcell.Style) {
		if y < height {
			lines = append(lines, textLine{X: x, Y: y, Text: text, Style: style})
		}
	}

	b := v.Battle
	if b == nil {
		add(0, 0, "Loading battle...", plain)
		return lines
	}

	add(0, 0, header(b), plain.Bold(true))
	lines = appendPanel(lines, 2, "CPU", b.Opponent, types, height)
	lines = appendPanel(lines, 7, "You", b.Challenger, types, height)

	if b.Status == game.StatusActive {
		for i, text := range menu(v.Mode, b.Challenger) {
			add(2, 12+i, text, plain)
		}
	}

	logRows := height - logTop - 1
	for i, entry := range logTail(b.Log, logRows) {
		add(0, logTop+i, entry, dim)
	}

	footer := v.Message
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)
	if footer == "" {
		footer = help(v.Mode, b.Status)
		style = dim
	}
	if height > 0 {
		add(0, height-1, truncate(footer, width), style)
	}
	return lines
}

// header summarizes the battle state in one line.
func header(b *game.Battle) string {
	switch b.Status {
	case game.StatusConcluded:
		return fmt.Sprintf("Battle over after %d turns: %s wins!", b.TurnCount, b.Winner.DisplayName())
	case game.StatusActive:
		return fmt.Sprintf("Turn %d: %s to move", b.TurnCount+1, b.Turn.DisplayName())
	default:
		return "Waiting for rosters..."
	}
}

// appendPanel draws a side's active creature with its HP bar and team dots.
func appendPanel(lines []textLine, top int, label string, r *entity.Roster, types *gamedata.TypeRegistry, height int) []textLine {
	if r == nil {
		return lines
	}
	c := r.ActiveCreature()
	if c == nil {
		return lines
	}
	add := func(x, y int, text string, style tcell.Style) {
		if y < height {
			lines = append(lines, textLine{X: x, Y: y, Text: text, Style: style})
		}
	}

	add(0, top, label+": "+c.Name, tcell.StyleDefault.Bold(true))
	x := 2
	for _, t := range c.Types {
		add(x, top+1, t, tcell.StyleDefault.Foreground(types.Color(t)))
		x += len(t) + 1
	}
	add(2, top+2, fmt.Sprintf("HP %s %d/%d", hpBar(c.HP, c.MaxHP, hpBarWidth), c.HP, c.MaxHP),
		tcell.StyleDefault.Foreground(hpColor(c.HP, c.MaxHP)))
	add(2, top+3, teamDots(r), tcell.StyleDefault.Foreground(tcell.ColorGray))
	return lines
}

// menu lists the challenger's moves or, in switch mode, its team.
func menu(mode Mode, r *entity.Roster) []string {
	var out []string
	if mode == ModeSwitch {
		for i, c := range r.Team {
			mark := ""
			switch {
			case i == r.Active:
				mark = " (in battle)"
			case !c.IsAlive():
				mark = " (fainted)"
			}
			out = append(out, fmt.Sprintf("%d) %s %d/%d%s", i+1, c.Name, c.HP, c.MaxHP, mark))
		}
		return out
	}
	c := r.ActiveCreature()
	if c == nil {
		return nil
	}
	for i, m := range c.Moves {
		out = append(out, fmt.Sprintf("%d) %s [%s] %d/%d", i+1, m.Name, m.Type, m.RemainingUses, m.MaxUses))
	}
	return out
}

func help(mode Mode, status game.Status) string {
	switch {
	case status != game.StatusActive:
		return "q: quit"
	case mode == ModeSwitch:
		return "1-6: send out  esc: back"
	default:
		return "1-4: attack  s: switch  c: let CPU move  q: quit"
	}
}

// hpBar renders hp out of max as a fixed width bar. A living creature
// always shows at least one filled cell.
func hpBar(hp, max, width int) string {
	filled := 0
	if max > 0 && hp > 0 {
		filled = hp * width / max
		if filled == 0 {
			filled = 1
		}
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// hpColor is green above half, yellow above a fifth and red below.
func hpColor(hp, max int) tcell.Color {
	switch {
	case max <= 0 || hp*5 <= max:
		return tcell.ColorRed
	case hp*2 <= max:
		return tcell.ColorYellow
	default:
		return tcell.ColorGreen
	}
}

// teamDots shows one marker per creature: o alive, x fainted.
func teamDots(r *entity.Roster) string {
	var sb strings.Builder
	for i, c := range r.Team {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if c.IsAlive() {
			sb.WriteByte('o')
		} else {
			sb.WriteByte('x')
		}
	}
	return sb.String()
}

// logTail returns the last n log entries.
func logTail(log []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(log) <= n {
		return log
	}
	return log[len(log)-n:]
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
