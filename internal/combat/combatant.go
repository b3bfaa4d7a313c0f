// Package combat provides the combatant record, the BP economy and hit
// resolution for turnbattle.
package combat

import (
	"fmt"

	"github.com/samdwyer/turnbattle/internal/guardian"
)

// DefaultSpeed is used when a combatant is built without a speed.
const DefaultSpeed = 100.0

// Side identifies which team a combatant fights for.
type Side int

const (
	SideAlly Side = iota
	SideEnemy
)

// String returns a human-readable side name.
func (s Side) String() string {
	switch s {
	case SideAlly:
		return "ally"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == SideAlly {
		return SideEnemy
	}
	return SideAlly
}

// Combatant is a participant in a battle. Death is a state flag: dead
// combatants stay addressable but never act again.
type Combatant struct {
	Name string
	Side Side
	Slot int

	HP, MaxHP int
	Attack    int
	Defense   int
	Speed     float64          // Turn speed; 0 acts last
	Element   guardian.Element // Element of this combatant's attacks

	BP    BP
	Guard *guardian.Gate // Optional guardian stones
}

// NewCombatant creates a combatant with full HP and the given stats. A speed
// that is not positive means DefaultSpeed.
func NewCombatant(name string, side Side, slot, hp, attack, defense int, speed float64) *Combatant {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Combatant{
		Name:    name,
		Side:    side,
		Slot:    slot,
		HP:      hp,
		MaxHP:   hp,
		Attack:  attack,
		Defense: defense,
		Speed:   speed,
		BP:      NewBP(MaxBP),
	}
}

// String identifies the combatant in logs.
func (c *Combatant) String() string {
	if c == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s[%s#%d]", c.Name, c.Side, c.Slot)
}

// IsAlive returns true if the combatant has HP remaining.
func (c *Combatant) IsAlive() bool { return c != nil && c.HP > 0 }

// CanAct reports whether the combatant may take a turn: alive and not held
// by a broken guardian gate.
func (c *Combatant) CanAct() bool {
	return c.IsAlive() && c.Guard.CanAct()
}

// EffectiveSpeed returns the speed used for turn ordering, never negative.
func (c *Combatant) EffectiveSpeed() float64 {
	return max(c.Speed, 0)
}

// TakeDamage reduces HP and returns actual damage taken.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 || c.HP <= 0 {
		return 0
	}
	actual := amount
	if actual > c.HP {
		actual = c.HP
	}
	c.HP -= actual
	return actual
}

// Heal restores HP and returns actual amount healed. Dead combatants cannot
// be healed.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || c.HP <= 0 {
		return 0
	}
	actual := amount
	if c.HP+actual > c.MaxHP {
		actual = c.MaxHP - c.HP
	}
	c.HP += actual
	return actual
}

// FirstAlive returns the first living combatant in slot order, or nil.
func FirstAlive(cs []*Combatant) *Combatant {
	for _, c := range cs {
		if c.IsAlive() {
			return c
		}
	}
	return nil
}

// Alive returns the living combatants, preserving order.
func Alive(cs []*Combatant) []*Combatant {
	out := make([]*Combatant, 0, len(cs))
	for _, c := range cs {
		if c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

// AliveCount returns the number of living combatants.
func AliveCount(cs []*Combatant) int {
	count := 0
	for _, c := range cs {
		if c.IsAlive() {
			count++
		}
	}
	return count
}
