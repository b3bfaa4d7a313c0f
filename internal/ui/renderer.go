package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/combat"
	"github.com/samdwyer/turnbattle/internal/entity"
	"github.com/samdwyer/turnbattle/internal/gamedata"
	"github.com/samdwyer/turnbattle/internal/guardian"
)

// Layout constants, in terminal cells.
const (
	statusTop      = 2
	enemyColumn    = 44
	rowsPerUnit    = 2
	fieldLeft      = 4
	fieldScale     = 4.0 // Columns per battlefield unit
	logLines       = 8
	deadGlyph      = '%'
	bpFull         = '●'
	bpEmpty        = '○'
	stoneClosed    = '?'
	stoneShattered = 'x'
)

// Unit is one combatant as the renderer sees it.
type Unit struct {
	Combatant *combat.Combatant
	Look      entity.Look
	X         float64 // Battlefield position
	Acting    bool
}

// Frame is everything drawn in one refresh.
type Frame struct {
	Round   int
	Allies  []Unit
	Enemies []Unit
	Queue   []Unit // Still to act this round, in order
	Preview []Unit // Predicted order of the next round
	Log     []string
	Footer  string
}

// Renderer handles drawing the battle to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws a complete frame.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()

	r.screen.DrawText(0, 0, fmt.Sprintf("Round %d", f.Round), tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	r.drawOrder(statusTop-1, f.Queue, f.Preview)

	rows := max(len(f.Allies), len(f.Enemies))
	for i, u := range f.Allies {
		r.drawStatus(0, statusTop+i*rowsPerUnit, u)
	}
	for i, u := range f.Enemies {
		r.drawStatus(enemyColumn, statusTop+i*rowsPerUnit, u)
	}

	fieldTop := statusTop + rows*rowsPerUnit + 1
	for _, u := range f.Allies {
		r.drawUnit(fieldTop, u)
	}
	for _, u := range f.Enemies {
		r.drawUnit(fieldTop, u)
	}

	r.drawLog(fieldTop+rows+1, f.Log)

	_, height := r.screen.Size()
	r.screen.DrawText(0, height-1, f.Footer, tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.screen.Show()
}

func (r *Renderer) drawStatus(x, y int, u Unit) {
	c := u.Combatant
	nameStyle := tcell.StyleDefault.Foreground(u.Look.Color)
	if u.Acting {
		nameStyle = nameStyle.Bold(true).Underline(true)
	}
	if !c.IsAlive() {
		nameStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}

	col := r.screen.DrawText(x, y, string(u.Look.Glyph)+" ", nameStyle)
	col = r.screen.DrawText(col, y, c.Name, nameStyle)
	col = r.screen.DrawText(col+1, y, fmt.Sprintf("HP %d/%d", c.HP, c.MaxHP), hpStyle(c))
	r.screen.DrawText(col+1, y, bpPips(c.BP.Current(), c.BP.Max()), tcell.StyleDefault.Foreground(tcell.ColorAqua))

	col = x + 2
	for _, s := range c.Guard.Stones() {
		glyph, style := stoneCell(s)
		r.screen.SetContent(col, y+1, glyph, style)
		col++
	}
	if c.Guard.IsBroken() {
		r.screen.DrawText(col+1, y+1, fmt.Sprintf("BREAK %d", c.Guard.Countdown()), tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}
}

// drawOrder draws the turn strip: who is still to act this round, then the
// predicted next round.
func (r *Renderer) drawOrder(y int, queue, preview []Unit) {
	if len(queue) == 0 && len(preview) == 0 {
		return
	}
	label := tcell.StyleDefault.Foreground(tcell.ColorGray)
	col := r.screen.DrawText(0, y, "Turn", label)
	col = r.drawGlyphs(col+1, y, queue)
	col = r.screen.DrawText(col, y, "| Next", label)
	r.drawGlyphs(col+1, y, preview)
}

// drawGlyphs draws one spaced glyph per unit and returns the next free column.
func (r *Renderer) drawGlyphs(x, y int, units []Unit) int {
	for _, u := range units {
		r.screen.SetContent(x, y, u.Look.Glyph, tcell.StyleDefault.Foreground(u.Look.Color))
		x += 2
	}
	return x
}

func (r *Renderer) drawUnit(top int, u Unit) {
	c := u.Combatant
	glyph := u.Look.Glyph
	style := tcell.StyleDefault.Foreground(u.Look.Color)
	if !c.IsAlive() {
		glyph = deadGlyph
		style = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
	if u.Acting {
		style = style.Bold(true)
	}
	r.screen.SetContent(fieldLeft+int(u.X*fieldScale), top+c.Slot, glyph, style)
}

func (r *Renderer) drawLog(top int, lines []string) {
	if len(lines) > logLines {
		lines = lines[len(lines)-logLines:]
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, line := range lines {
		r.screen.DrawText(0, top+i, line, style)
	}
}

// RenderMessage displays a message on the given line.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.screen.DrawText(0, y, msg, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	r.screen.Show()
}

func hpStyle(c *combat.Combatant) tcell.Style {
	switch {
	case !c.IsAlive():
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case c.HP*4 <= c.MaxHP:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case c.HP*2 <= c.MaxHP:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
}

func bpPips(current, limit int) string {
	return "BP " + strings.Repeat(string(bpFull), current) + strings.Repeat(string(bpEmpty), limit-current)
}

func stoneCell(s guardian.Stone) (rune, tcell.Style) {
	switch s.State {
	case guardian.StoneBroken:
		return stoneShattered, tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case guardian.StoneOpen:
		glyph := '*'
		if len(s.Element) > 0 {
			glyph = rune(strings.ToUpper(string(s.Element))[0])
		}
		return glyph, tcell.StyleDefault.Foreground(gamedata.ElementColor(s.Element))
	default:
		return stoneClosed, tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}
