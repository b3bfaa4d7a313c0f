package combat

import (
	"errors"
	"testing"

	"github.com/samdwyer/turnbattle/internal/guardian"
)

func TestSideString(t *testing.T) {
	tests := []struct {
		side     Side
		expected string
	}{
		{SideAlly, "ally"},
		{SideEnemy, "enemy"},
		{Side(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.side.String(); got != tt.expected {
			t.Errorf("Side(%d).String() = %q, want %q", tt.side, got, tt.expected)
		}
	}
	if SideAlly.Opponent() != SideEnemy || SideEnemy.Opponent() != SideAlly {
		t.Error("Opponent() should swap sides")
	}
}

func TestEffectiveSpeedDefault(t *testing.T) {
	c := NewCombatant("Slowpoke", SideAlly, 0, 10, 1, 1, 0)
	if got := c.EffectiveSpeed(); got != DefaultSpeed {
		t.Errorf("EffectiveSpeed() = %v, want %v", got, DefaultSpeed)
	}
	c.Speed = 42
	if got := c.EffectiveSpeed(); got != 42 {
		t.Errorf("EffectiveSpeed() = %v, want 42", got)
	}

	// Once built, zero is a real speed.
	c.Speed = 0
	if got := c.EffectiveSpeed(); got != 0 {
		t.Errorf("EffectiveSpeed() = %v, want 0", got)
	}
	c.Speed = -5
	if got := c.EffectiveSpeed(); got != 0 {
		t.Errorf("EffectiveSpeed() = %v, want 0 for negative speed", got)
	}
}

func TestTakeDamageAndHeal(t *testing.T) {
	c := NewCombatant("Knight", SideAlly, 0, 20, 5, 5, 100)

	if got := c.TakeDamage(8); got != 8 {
		t.Errorf("TakeDamage(8) = %d, want 8", got)
	}
	if got := c.Heal(100); got != 8 {
		t.Errorf("Heal(100) = %d, want 8 (capped)", got)
	}
	if got := c.TakeDamage(50); got != 20 {
		t.Errorf("TakeDamage(50) = %d, want 20 (capped)", got)
	}
	if c.IsAlive() {
		t.Error("combatant should be dead")
	}
	if got := c.Heal(5); got != 0 {
		t.Errorf("Heal() on dead combatant = %d, want 0", got)
	}
}

func TestCanAct(t *testing.T) {
	c := NewCombatant("Golem", SideEnemy, 0, 20, 5, 5, 100)
	if !c.CanAct() {
		t.Error("living combatant without gate should act")
	}

	c.Guard = guardian.NewGate(guardian.ElementEarth)
	c.Guard.TryBreakStone(guardian.ElementEarth)
	if c.CanAct() {
		t.Error("break-gated combatant should not act")
	}

	c.Guard = nil
	c.TakeDamage(100)
	if c.CanAct() {
		t.Error("dead combatant should not act")
	}
}

func TestAliveHelpers(t *testing.T) {
	a := NewCombatant("A", SideEnemy, 0, 10, 1, 1, 100)
	b := NewCombatant("B", SideEnemy, 1, 10, 1, 1, 100)
	cs := []*Combatant{a, b}

	if FirstAlive(cs) != a {
		t.Error("FirstAlive() should return first combatant")
	}
	a.TakeDamage(100)
	if FirstAlive(cs) != b {
		t.Error("FirstAlive() should skip dead combatants")
	}
	if AliveCount(cs) != 1 || len(Alive(cs)) != 1 {
		t.Error("expected exactly one living combatant")
	}
	b.TakeDamage(100)
	if FirstAlive(cs) != nil {
		t.Error("FirstAlive() should return nil when all dead")
	}
}

func TestBPBeginBattle(t *testing.T) {
	bp := NewBP(5)
	bp.BeginBattle()
	if bp.Current() != 1 {
		t.Errorf("Current() = %d, want 1", bp.Current())
	}

	zero := NewBP(0)
	zero.BeginBattle()
	if zero.Current() != 0 {
		t.Errorf("Current() with max 0 = %d, want 0", zero.Current())
	}

	clamped := NewBP(9)
	if clamped.Max() != MaxBP {
		t.Errorf("NewBP(9).Max() should clamp to %d", MaxBP)
	}
}

func TestBPRegenLaw(t *testing.T) {
	bp := NewBP(5)
	bp.BeginBattle()

	// Turn 1: nothing spent previously -> +1
	if !bp.BeginTurn() {
		t.Error("expected regen on first turn")
	}
	if bp.Current() != 2 {
		t.Fatalf("Current() = %d, want 2", bp.Current())
	}

	// Spend on turn 1
	if _, err := bp.Commit(2); err != nil {
		t.Fatalf("Commit(2) error: %v", err)
	}
	bp.ClearPending()

	// Turn 2: spent on turn 1 -> no regen
	if bp.BeginTurn() {
		t.Error("expected no regen after spending")
	}
	if bp.Current() != 0 {
		t.Errorf("Current() = %d, want 0", bp.Current())
	}
	if bp.Spent() != 0 {
		t.Errorf("Spent() after BeginTurn = %d, want 0", bp.Spent())
	}

	// Turn 3: nothing spent on turn 2 -> +1
	if !bp.BeginTurn() {
		t.Error("expected regen after an idle turn")
	}
	if bp.Current() != 1 {
		t.Errorf("Current() = %d, want 1", bp.Current())
	}
}

func TestBPRegenCapped(t *testing.T) {
	bp := NewBP(2)
	bp.BeginBattle()
	bp.BeginTurn()
	if bp.BeginTurn() {
		t.Error("regen should stop at max")
	}
	if bp.Current() != 2 {
		t.Errorf("Current() = %d, want 2", bp.Current())
	}
}

func TestBPCommit(t *testing.T) {
	bp := NewBP(5)
	bp.BeginBattle()

	n, err := bp.Commit(0)
	if err != nil || n != 0 {
		t.Errorf("Commit(0) = %d, %v; want 0, nil", n, err)
	}
	if _, err := bp.Commit(-3); err != nil {
		t.Errorf("Commit(-3) error: %v", err)
	}

	if _, err := bp.Commit(2); !errors.Is(err, ErrInsufficientBP) {
		t.Errorf("Commit(2) with 1 BP error = %v, want ErrInsufficientBP", err)
	}
	if bp.Current() != 1 || bp.Spent() != 0 {
		t.Error("rejected commit should not spend")
	}

	n, err = bp.Commit(1)
	if err != nil || n != 1 {
		t.Fatalf("Commit(1) = %d, %v; want 1, nil", n, err)
	}
	if bp.Pending() != 1 || bp.Spent() != 1 || bp.Current() != 0 {
		t.Errorf("after Commit(1): pending=%d spent=%d current=%d", bp.Pending(), bp.Spent(), bp.Current())
	}
	bp.ClearPending()
	if bp.Pending() != 0 {
		t.Error("ClearPending() should reset pending")
	}
	if bp.Spent() != 1 {
		t.Error("ClearPending() should keep the spent counter for the regen check")
	}
}
