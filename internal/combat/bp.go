package combat

import (
	"errors"
	"fmt"
)

// MaxBP is the highest BP cap a combatant can have.
const MaxBP = 5

// ErrInsufficientBP is returned when a command asks for more BP than held.
var ErrInsufficientBP = errors.New("insufficient BP")

// BP is a combatant's battle point counter.
//
// spent is the amount consumed during the combatant's current (or most
// recent) turn. It is only cleared in BeginTurn, after the regen check, so
// regen always looks at the previous turn. pending is the amount committed to
// the command in flight and is cleared when that command finishes.
type BP struct {
	current int
	max     int
	spent   int
	pending int
}

// NewBP returns a counter with the given cap, clamped to 0..MaxBP.
func NewBP(limit int) BP {
	if limit < 0 {
		limit = 0
	}
	if limit > MaxBP {
		limit = MaxBP
	}
	return BP{max: limit}
}

// Current returns the spendable BP.
func (b *BP) Current() int { return b.current }

// Max returns the BP cap.
func (b *BP) Max() int { return b.max }

// Spent returns the BP consumed on the current turn.
func (b *BP) Spent() int { return b.spent }

// Pending returns the BP committed to the command in flight.
func (b *BP) Pending() int { return b.pending }

// BeginBattle resets the counter for a new battle. Combatants start with 1 BP.
func (b *BP) BeginBattle() {
	b.current = min(1, b.max)
	b.spent = 0
	b.pending = 0
}

// BeginTurn runs the start-of-turn regen: +1 BP if nothing was spent on the
// previous turn and the cap is not reached. It then clears the spent counter.
// It returns true if BP was regenerated.
func (b *BP) BeginTurn() bool {
	regen := false
	if b.spent == 0 && b.current < b.max {
		b.current++
		regen = true
	}
	b.spent = 0
	return regen
}

// Commit spends n BP for the current command. n <= 0 commits nothing.
// Asking for more than is held is rejected and nothing is spent.
func (b *BP) Commit(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if n > b.current {
		return 0, fmt.Errorf("commit %d BP with %d held: %w", n, b.current, ErrInsufficientBP)
	}
	b.current -= n
	b.spent += n
	b.pending = n
	return n, nil
}

// ClearPending releases the in-flight command's bookkeeping.
func (b *BP) ClearPending() {
	b.pending = 0
}
