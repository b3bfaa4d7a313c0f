// Package guardian implements guardian stones: an elemental shield layer that,
// once fully broken, keeps its owner from acting for a fixed number of rounds.
package guardian

// BreakTurns is the number of round boundaries a broken gate stays broken.
const BreakTurns = 7

// Element identifies the elemental affinity of a stone or an attack.
type Element string

const (
	ElementNone  Element = ""
	ElementFire  Element = "fire"
	ElementWater Element = "water"
	ElementWind  Element = "wind"
	ElementEarth Element = "earth"
	ElementLight Element = "light"
	ElementDark  Element = "dark"
)

// StoneState is the visible state of a single stone.
type StoneState int

const (
	// StoneClosed hides the stone's element from attackers.
	StoneClosed StoneState = iota
	// StoneOpen reveals the element.
	StoneOpen
	// StoneBroken has been shattered by a matching attack.
	StoneBroken
)

// String returns a human-readable stone state.
func (s StoneState) String() string {
	switch s {
	case StoneClosed:
		return "closed"
	case StoneOpen:
		return "open"
	case StoneBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// Stone is one elemental shield slot.
type Stone struct {
	Element Element
	State   StoneState
}

// Gate tracks a combatant's stones and its break countdown.
type Gate struct {
	stones    []Stone
	broken    bool
	countdown int
}

// NewGate creates a gate with one closed stone per element, in order.
func NewGate(elements ...Element) *Gate {
	stones := make([]Stone, len(elements))
	for i, e := range elements {
		stones[i] = Stone{Element: e, State: StoneClosed}
	}
	return &Gate{stones: stones}
}

// TryBreakStone applies a hit of the given element. It returns true if a stone
// was broken. Breaking the last unbroken stone puts the gate in break state.
func (g *Gate) TryBreakStone(attacker Element) bool {
	if g == nil || g.broken || len(g.stones) == 0 {
		return false
	}

	hit := -1
	for i := range g.stones {
		if g.stones[i].State != StoneBroken && g.stones[i].Element == attacker {
			hit = i
			break
		}
	}
	if hit >= 0 {
		g.stones[hit].State = StoneBroken
	}

	if g.remaining() == 0 {
		g.broken = true
		g.countdown = BreakTurns
		return true
	}

	// The shield has been struck, so whatever is left is now visible.
	for i := range g.stones {
		if g.stones[i].State == StoneClosed {
			g.stones[i].State = StoneOpen
		}
	}
	return hit >= 0
}

// ProcessTurn advances the break countdown by one round boundary. It returns
// true when the gate recovers on this call.
func (g *Gate) ProcessTurn() bool {
	if g == nil || !g.broken {
		return false
	}
	g.countdown--
	if g.countdown > 0 {
		return false
	}

	g.broken = false
	g.countdown = 0
	for i := range g.stones {
		g.stones[i].State = StoneOpen
	}
	return true
}

// IsBroken reports whether the gate is in break state.
func (g *Gate) IsBroken() bool {
	return g != nil && g.broken
}

// CanAct reports whether the owner may take turns.
func (g *Gate) CanAct() bool {
	return !g.IsBroken()
}

// Countdown returns the number of round boundaries left in break state.
func (g *Gate) Countdown() int {
	if g == nil {
		return 0
	}
	return g.countdown
}

// Stones returns a copy of the stones in order.
func (g *Gate) Stones() []Stone {
	if g == nil {
		return nil
	}
	out := make([]Stone, len(g.stones))
	copy(out, g.stones)
	return out
}

func (g *Gate) remaining() int {
	n := 0
	for _, s := range g.stones {
		if s.State != StoneBroken {
			n++
		}
	}
	return n
}
