package turnorder

import (
	"math/rand"
	"testing"

	"github.com/samdwyer/turnbattle/internal/combat"
)

func newSides() (allies, enemies []*combat.Combatant) {
	allies = []*combat.Combatant{
		combat.NewCombatant("Ally0", combat.SideAlly, 0, 10, 5, 1, 120),
		combat.NewCombatant("Ally1", combat.SideAlly, 1, 10, 5, 1, 80),
	}
	enemies = []*combat.Combatant{
		combat.NewCombatant("Enemy0", combat.SideEnemy, 0, 10, 5, 1, 100),
		combat.NewCombatant("Enemy1", combat.SideEnemy, 1, 10, 5, 1, 60),
	}
	return allies, enemies
}

func mustNext(t *testing.T, s *Scheduler) *combat.Combatant {
	t.Helper()
	turn, ok := s.GetNextTurn()
	if !ok {
		t.Fatal("GetNextTurn() returned no turn")
	}
	return turn.Combatant
}

func TestSpeedOrderAcrossRounds(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	want := []*combat.Combatant{allies[0], enemies[0], allies[1], enemies[1]}
	for i, w := range want {
		if got := mustNext(t, s); got != w {
			t.Errorf("turn %d = %v, want %v", i+1, got, w)
		}
	}
	if s.Round() != 1 {
		t.Errorf("Round() = %d, want 1", s.Round())
	}

	if got := mustNext(t, s); got != allies[0] {
		t.Errorf("first turn of round 2 = %v, want %v", got, allies[0])
	}
	if s.Round() != 2 {
		t.Errorf("Round() = %d, want 2", s.Round())
	}
	for i, w := range want[1:] {
		if got := mustNext(t, s); got != w {
			t.Errorf("round 2 turn %d = %v, want %v", i+2, got, w)
		}
	}
}

func TestTurnFieldsMatchCombatant(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	mustNext(t, s)
	turn, ok := s.GetNextTurn()
	if !ok {
		t.Fatal("expected a turn")
	}
	if turn.Side != combat.SideEnemy || turn.Slot != 0 {
		t.Errorf("turn = %s#%d, want enemy#0", turn.Side, turn.Slot)
	}
}

func TestDeadCombatantLeavesNextRound(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	for i := 0; i < 4; i++ {
		mustNext(t, s)
	}
	allies[1].TakeDamage(1000)

	mustNext(t, s) // builds round 2
	if n := len(s.Entries()); n != 3 {
		t.Errorf("round 2 entries = %d, want 3", n)
	}
}

func TestDeadEntryDiscardedMidRound(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	mustNext(t, s) // ally0

	// enemy0 dies before its turn comes up
	enemies[0].TakeDamage(1000)
	if got := mustNext(t, s); got != allies[1] {
		t.Errorf("next turn = %v, want %v", got, allies[1])
	}
	mustNext(t, s) // enemy1
	if !s.IsRoundComplete() {
		t.Error("round should be complete once the living have acted")
	}
}

func TestIsRoundComplete(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	if s.IsRoundComplete() {
		t.Error("round should not be complete before anyone acts")
	}
	for i := 0; i < 3; i++ {
		mustNext(t, s)
		if s.IsRoundComplete() {
			t.Errorf("round complete after %d of 4 turns", i+1)
		}
	}
	mustNext(t, s)
	if !s.IsRoundComplete() {
		t.Error("round should be complete after every living combatant acted")
	}
}

func TestModifySpeedWaitsForNextRound(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	mustNext(t, s) // ally0

	// 60 -> 180
	s.ModifySpeed(enemies[1], 3)

	remaining := s.GetRemainingTurnsInRound()
	want := []*combat.Combatant{enemies[0], allies[1], enemies[1]}
	if len(remaining) != len(want) {
		t.Fatalf("remaining = %d, want %d", len(remaining), len(want))
	}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("remaining[%d] = %v, want %v", i, remaining[i], want[i])
		}
	}

	preview := s.GetNextRoundPreview()
	if preview[0] != enemies[1] {
		t.Errorf("preview[0] = %v, want %v", preview[0], enemies[1])
	}

	for i := 0; i < 3; i++ {
		mustNext(t, s)
	}
	if got := mustNext(t, s); got != enemies[1] {
		t.Errorf("round 2 first turn = %v, want sped-up %v", got, enemies[1])
	}
}

func TestModifySpeedUsesDefault(t *testing.T) {
	c := combat.NewCombatant("Unset", combat.SideAlly, 0, 10, 1, 1, 0)
	New(rand.New(rand.NewSource(1))).ModifySpeed(c, 0.5)
	if c.Speed != 50 {
		t.Errorf("Speed = %v, want 50", c.Speed)
	}
}

func TestModifySpeedToZeroActsLast(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	for i := 0; i < 4; i++ {
		mustNext(t, s)
	}

	// 120 -> 0
	s.ModifySpeed(allies[0], 0)
	if allies[0].Speed != 0 || allies[0].EffectiveSpeed() != 0 {
		t.Fatalf("speed = %v (effective %v), want 0", allies[0].Speed, allies[0].EffectiveSpeed())
	}

	want := []*combat.Combatant{enemies[0], allies[1], enemies[1], allies[0]}
	for i, w := range want {
		if got := mustNext(t, s); got != w {
			t.Errorf("round 2 turn %d = %v, want %v", i, got, w)
		}
	}

	// A later change scales from the stored zero, not from a default.
	s.ModifySpeed(allies[0], 0.5)
	if allies[0].Speed != 0 {
		t.Errorf("Speed = %v after halving zero, want 0", allies[0].Speed)
	}
}

func TestModifySpeedClampsNegative(t *testing.T) {
	c := combat.NewCombatant("Hasted", combat.SideAlly, 0, 10, 1, 1, 80)
	New(rand.New(rand.NewSource(1))).ModifySpeed(c, -2)
	if c.Speed != 0 {
		t.Errorf("Speed = %v, want 0", c.Speed)
	}
}

func TestTiesAreRandomButOrdered(t *testing.T) {
	seenFirst := map[string]bool{}
	for seed := int64(0); seed < 64; seed++ {
		cs := []*combat.Combatant{
			combat.NewCombatant("A", combat.SideAlly, 0, 10, 1, 1, 100),
			combat.NewCombatant("B", combat.SideAlly, 1, 10, 1, 1, 100),
			combat.NewCombatant("C", combat.SideAlly, 2, 10, 1, 1, 50),
		}
		s := New(rand.New(rand.NewSource(seed)))
		s.Initialize(cs, nil)

		entries := s.Entries()
		for i := 1; i < len(entries); i++ {
			if entries[i].Speed > entries[i-1].Speed {
				t.Fatalf("seed %d: entries out of speed order", seed)
			}
		}
		seenFirst[entries[0].Combatant.Name] = true
		if entries[2].Combatant.Name != "C" {
			t.Fatalf("seed %d: slowest combatant not last", seed)
		}
	}
	if !seenFirst["A"] || !seenFirst["B"] {
		t.Errorf("tie-break never varied across seeds: %v", seenFirst)
	}
}

func TestSameSeedSameOrder(t *testing.T) {
	build := func() []string {
		cs := []*combat.Combatant{
			combat.NewCombatant("A", combat.SideAlly, 0, 10, 1, 1, 100),
			combat.NewCombatant("B", combat.SideAlly, 1, 10, 1, 1, 100),
			combat.NewCombatant("C", combat.SideEnemy, 0, 10, 1, 1, 100),
		}
		s := New(rand.New(rand.NewSource(12345)))
		s.Initialize(cs[:2], cs[2:])
		var names []string
		for _, e := range s.Entries() {
			names = append(names, e.Combatant.Name)
		}
		return names
	}

	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("order mismatch at %d: %s != %s", i, a[i], b[i])
		}
	}
}

func TestNoVisitTwiceBeforeOthers(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(7)))
	s.Initialize(allies, enemies)

	for round := 0; round < 5; round++ {
		seen := map[*combat.Combatant]bool{}
		for i := 0; i < 4; i++ {
			c := mustNext(t, s)
			if seen[c] {
				t.Fatalf("round %d: %v visited twice", round+1, c)
			}
			seen[c] = true
		}
	}
}

func TestEligibilitySkipsAndKeepsAccounting(t *testing.T) {
	allies, enemies := newSides()
	held := enemies[0]
	s := New(rand.New(rand.NewSource(1)), WithEligibility(func(c *combat.Combatant) bool {
		return c != held
	}))
	s.Initialize(allies, enemies)

	got := []*combat.Combatant{mustNext(t, s), mustNext(t, s), mustNext(t, s)}
	want := []*combat.Combatant{allies[0], allies[1], enemies[1]}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("turn %d = %v, want %v", i+1, got[i], want[i])
		}
	}
	if !s.IsRoundComplete() {
		t.Error("skipped combatant should still count as acted")
	}
}

func TestAllIneligibleReturnsSentinel(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)), WithEligibility(func(*combat.Combatant) bool { return false }))
	s.Initialize(allies, enemies)

	if _, ok := s.GetNextTurn(); ok {
		t.Error("expected no eligible combatant")
	}
	if !s.HasAliveCharacters() {
		t.Error("combatants are still alive")
	}
	if _, ok := s.GetNextTurn(); ok {
		t.Error("expected no eligible combatant in the next round either")
	}
	if s.Round() != 2 {
		t.Errorf("Round() = %d, want 2", s.Round())
	}
}

func TestRoundHook(t *testing.T) {
	allies, enemies := newSides()
	var rounds []int
	s := New(rand.New(rand.NewSource(1)), WithRoundHook(func(r int) { rounds = append(rounds, r) }))
	s.Initialize(allies, enemies)

	if len(rounds) != 0 {
		t.Fatalf("hook fired for round 1: %v", rounds)
	}
	for i := 0; i < 9; i++ {
		mustNext(t, s)
	}
	if len(rounds) != 2 || rounds[0] != 2 || rounds[1] != 3 {
		t.Errorf("hook rounds = %v, want [2 3]", rounds)
	}
}

func TestInitializeWithNoLivingCombatants(t *testing.T) {
	dead := combat.NewCombatant("Ghost", combat.SideAlly, 0, 10, 1, 1, 100)
	dead.TakeDamage(100)

	s := New(rand.New(rand.NewSource(1)))
	s.Initialize([]*combat.Combatant{dead}, nil)

	if s.HasAliveCharacters() {
		t.Error("HasAliveCharacters() should be false")
	}
	if _, ok := s.GetNextTurn(); ok {
		t.Error("GetNextTurn() should return the sentinel")
	}
	if len(s.Entries()) != 0 {
		t.Error("queue should be empty")
	}
}

func TestBattleEndsWhenEveryoneDies(t *testing.T) {
	allies, enemies := newSides()
	s := New(rand.New(rand.NewSource(1)))
	s.Initialize(allies, enemies)

	mustNext(t, s)
	for _, c := range append(allies, enemies...) {
		c.TakeDamage(1000)
	}
	if _, ok := s.GetNextTurn(); ok {
		t.Error("expected sentinel once everyone is dead")
	}
}
