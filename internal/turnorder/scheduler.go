// Package turnorder builds each round's acting order from combatant speeds and
// hands out one acting combatant at a time.
package turnorder

import (
	"math/rand"
	"sort"

	"github.com/samdwyer/turnbattle/internal/combat"
)

// Entry wraps a combatant for one round of scheduling.
type Entry struct {
	Combatant *combat.Combatant
	Speed     float64 // Speed captured when the round was built
	Acted     bool

	tiebreak float64
}

// PendingTurn identifies the combatant whose turn it is.
type PendingTurn struct {
	Side      combat.Side
	Slot      int
	Combatant *combat.Combatant
}

// Scheduler orders combatants by speed, one round at a time.
//
// The backing list is never pruned: liveness is re-checked every time it is
// read, so dead combatants keep stable positions and simply stop being
// scheduled.
type Scheduler struct {
	rng        *rand.Rand
	eligible   func(*combat.Combatant) bool
	onNewRound func(round int)

	combatants []*combat.Combatant
	entries    []*Entry
	queue      []*Entry
	round      int
	built      bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithEligibility sets the check that decides whether a living combatant may
// take its turn. Ineligible combatants are popped and skipped.
func WithEligibility(fn func(*combat.Combatant) bool) Option {
	return func(s *Scheduler) { s.eligible = fn }
}

// WithRoundHook registers a function called at every round boundary, i.e. on
// each build after the first, with the new round number.
func WithRoundHook(fn func(round int)) Option {
	return func(s *Scheduler) { s.onNewRound = fn }
}

// New creates a scheduler drawing tie-breaks from rng.
func New(rng *rand.Rand, opts ...Option) *Scheduler {
	s := &Scheduler{rng: rng}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize registers both sides and builds round 1. With no living
// combatants the queue is simply left empty.
func (s *Scheduler) Initialize(allies, enemies []*combat.Combatant) {
	s.combatants = s.combatants[:0]
	s.entries = nil
	s.queue = nil
	s.round = 0
	s.built = false

	for _, c := range allies {
		if c.IsAlive() {
			s.combatants = append(s.combatants, c)
		}
	}
	for _, c := range enemies {
		if c.IsAlive() {
			s.combatants = append(s.combatants, c)
		}
	}
	if len(s.combatants) == 0 {
		return
	}
	s.BuildRoundOrder()
}

// BuildRoundOrder sorts living combatants by speed, highest first, with ties
// broken by a uniform random draw, and loads the queue.
func (s *Scheduler) BuildRoundOrder() {
	if s.built {
		s.round++
	} else {
		s.round = 1
		s.built = true
	}

	entries := make([]*Entry, 0, len(s.combatants))
	for _, c := range s.combatants {
		if !c.IsAlive() {
			continue
		}
		entries = append(entries, &Entry{
			Combatant: c,
			Speed:     c.EffectiveSpeed(),
			tiebreak:  s.rng.Float64(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Speed != entries[j].Speed {
			return entries[i].Speed > entries[j].Speed
		}
		return entries[i].tiebreak > entries[j].tiebreak
	})

	s.entries = entries
	s.queue = make([]*Entry, len(entries))
	copy(s.queue, entries)

	if s.round > 1 && s.onNewRound != nil {
		s.onNewRound(s.round)
	}
}

// GetNextTurn pops the next combatant to act. An empty queue with living
// combatants starts a new round first. It returns false when nobody is left
// to act: no living combatants at all, or every remaining entry this round is
// ineligible.
func (s *Scheduler) GetNextTurn() (PendingTurn, bool) {
	if len(s.queue) == 0 {
		if !s.HasAliveCharacters() {
			return PendingTurn{}, false
		}
		s.BuildRoundOrder()
	}

	for len(s.queue) > 0 {
		e := s.queue[0]
		s.queue = s.queue[1:]

		c := e.Combatant
		if !c.IsAlive() {
			continue
		}
		e.Acted = true
		if s.eligible != nil && !s.eligible(c) {
			continue
		}
		return PendingTurn{Side: c.Side, Slot: c.Slot, Combatant: c}, true
	}
	return PendingTurn{}, false
}

// ModifySpeed scales a combatant's speed, bottoming out at 0. The current
// round's order is left untouched; the change shows from the next build.
func (s *Scheduler) ModifySpeed(c *combat.Combatant, multiplier float64) {
	if c == nil {
		return
	}
	c.Speed = max(c.EffectiveSpeed()*multiplier, 0)
}

// Round returns the current round number, starting at 1.
func (s *Scheduler) Round() int { return s.round }

// IsRoundComplete reports whether the queue is empty and every living
// combatant has acted.
func (s *Scheduler) IsRoundComplete() bool {
	if len(s.queue) > 0 {
		return false
	}
	acted := make(map[*combat.Combatant]bool, len(s.entries))
	for _, e := range s.entries {
		if e.Acted {
			acted[e.Combatant] = true
		}
	}
	for _, c := range s.combatants {
		if c.IsAlive() && !acted[c] {
			return false
		}
	}
	return true
}

// HasAliveCharacters reports whether any registered combatant is alive.
func (s *Scheduler) HasAliveCharacters() bool {
	return combat.AliveCount(s.combatants) > 0
}

// GetRemainingTurnsInRound lists living combatants still queued this round,
// in order.
func (s *Scheduler) GetRemainingTurnsInRound() []*combat.Combatant {
	out := make([]*combat.Combatant, 0, len(s.queue))
	for _, e := range s.queue {
		if e.Combatant.IsAlive() {
			out = append(out, e.Combatant)
		}
	}
	return out
}

// GetNextRoundPreview predicts the next round's order from current speeds.
// Ties keep registration order here; the real build draws them at random.
func (s *Scheduler) GetNextRoundPreview() []*combat.Combatant {
	out := combat.Alive(s.combatants)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveSpeed() > out[j].EffectiveSpeed()
	})
	return out
}

// Entries returns the current round's entries in build order.
func (s *Scheduler) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}
