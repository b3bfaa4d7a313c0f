// Package action provides the per-combatant action state machine: the only
// way a combatant visibly does something over time.
package action

import (
	"math"
	"time"
)

// StateID names a logical action state.
type StateID int

const (
	Idle StateID = iota
	MoveToAttackPoint
	ReturnToStartPoint
	Attack
	Skill
	Hit
	Dead
)

// String returns a human-readable state name.
func (s StateID) String() string {
	switch s {
	case Idle:
		return "idle"
	case MoveToAttackPoint:
		return "move_to_attack_point"
	case ReturnToStartPoint:
		return "return_to_start_point"
	case Attack:
		return "attack"
	case Skill:
		return "skill"
	case Hit:
		return "hit"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// oneShot reports whether the state completes on its own and then hands
// control back to Idle.
func (s StateID) oneShot() bool {
	return s == Attack || s == Skill || s == Hit
}

// Callbacks are the presentation hooks bound to a state. All are optional.
//
// A state completes when Done returns true or, if Duration is set, once that
// much time has been ticked. A state with neither is terminal and persists
// until something else calls SetState.
type Callbacks struct {
	Enter    func() error
	Tick     func(dt time.Duration)
	Done     func() bool
	Exit     func()
	Duration time.Duration
}

// Vec2 is a 2D battlefield position.
type Vec2 struct {
	X, Y float64
}

// Dist returns the euclidean distance to o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Toward returns the point step units from v in the direction of o, never
// overshooting o.
func (v Vec2) Toward(o Vec2, step float64) Vec2 {
	d := v.Dist(o)
	if d <= step || d == 0 {
		return o
	}
	f := step / d
	return Vec2{X: v.X + (o.X-v.X)*f, Y: v.Y + (o.Y-v.Y)*f}
}

// Config holds timing and movement tuning for a machine.
type Config struct {
	AttackMoveSpeed float64 // Units per second toward the attack point
	ReturnMoveSpeed float64 // Units per second back home
	Epsilon         float64 // Arrival distance

	// Fallback durations for one-shot states bound without Done or Duration.
	AttackDuration time.Duration
	SkillDuration  time.Duration
	HitDuration    time.Duration
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		AttackMoveSpeed: 12,
		ReturnMoveSpeed: 16,
		Epsilon:         0.01,
		AttackDuration:  400 * time.Millisecond,
		SkillDuration:   700 * time.Millisecond,
		HitDuration:     300 * time.Millisecond,
	}
}
