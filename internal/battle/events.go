package battle

import (
	"sync"

	"github.com/samdwyer/turnbattle/internal/combat"
)

// EventKind classifies a battle notification.
type EventKind int

const (
	EventRoundStarted EventKind = iota
	EventTurnStarted
	EventAttack
	EventSkill
	EventComboHit
	EventDefeated
	EventGuardianBreak
	EventGuardianRecover
	EventTurnAborted
	EventTurnEnded
	EventBattleEnded
)

// String returns a human-readable event kind.
func (k EventKind) String() string {
	switch k {
	case EventRoundStarted:
		return "round_started"
	case EventTurnStarted:
		return "turn_started"
	case EventAttack:
		return "attack"
	case EventSkill:
		return "skill"
	case EventComboHit:
		return "combo_hit"
	case EventDefeated:
		return "defeated"
	case EventGuardianBreak:
		return "guardian_break"
	case EventGuardianRecover:
		return "guardian_recover"
	case EventTurnAborted:
		return "turn_aborted"
	case EventTurnEnded:
		return "turn_ended"
	case EventBattleEnded:
		return "battle_ended"
	default:
		return "unknown"
	}
}

// Ref is a point-in-time snapshot of a combatant, safe to hand to listeners
// running on other goroutines.
type Ref struct {
	Name      string
	Side      combat.Side
	Slot      int
	HP, MaxHP int
	BP        int
	Broken    bool
}

// RefOf snapshots c. A nil combatant gives the zero Ref.
func RefOf(c *combat.Combatant) Ref {
	if c == nil {
		return Ref{}
	}
	return Ref{
		Name:   c.Name,
		Side:   c.Side,
		Slot:   c.Slot,
		HP:     c.HP,
		MaxHP:  c.MaxHP,
		BP:     c.BP.Current(),
		Broken: c.Guard.IsBroken(),
	}
}

// Event is an "action happened" notification for presentation layers.
type Event struct {
	Kind    EventKind
	Round   int
	Actor   Ref
	Target  Ref
	Damage  int
	Hit     int // 1-based hit number within a combo
	Outcome Outcome
	Reason  string
}

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Bus struct {
	mu      sync.Mutex
	subs    []chan Event
	dropped int
	closed  bool
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel receiving every event published from now on.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers e to every subscriber with room for it.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped++
		}
	}
}

// Dropped returns how many deliveries were skipped because of full buffers.
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close closes every subscriber channel. Further publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
