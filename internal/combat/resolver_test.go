package combat

import (
	"testing"

	"github.com/samdwyer/turnbattle/internal/guardian"
)

func TestResolveAttack(t *testing.T) {
	resolver := NewEffectResolver(nil)

	// Attacker: 8 attack, Target: 3 defense
	// Expected: 8 - 3 = 5 damage
	attacker := NewCombatant("Warrior", SideAlly, 0, 30, 8, 6, 100)
	target := NewCombatant("Goblin", SideEnemy, 0, 15, 2, 3, 90)

	result := resolver.Resolve(HitAttack, attacker, target)

	if !result.Success {
		t.Errorf("Expected success, got failure: %s", result.Message)
	}
	if result.Damage != 5 {
		t.Errorf("Expected 5 damage, got %d", result.Damage)
	}
	if target.HP != 10 {
		t.Errorf("Expected target HP 10, got %d", target.HP)
	}
	if result.Killed {
		t.Error("Target should have survived")
	}
}

func TestResolveAttackMinimum(t *testing.T) {
	resolver := NewEffectResolver(nil)

	// 2 attack vs 10 defense -> min 1 damage
	attacker := NewCombatant("Weak", SideAlly, 0, 10, 2, 0, 100)
	target := NewCombatant("Tank", SideEnemy, 0, 50, 0, 10, 100)

	result := resolver.Resolve(HitAttack, attacker, target)
	if result.Damage != 1 {
		t.Errorf("Expected minimum 1 damage, got %d", result.Damage)
	}
}

func TestResolveSkill(t *testing.T) {
	resolver := NewEffectResolver(nil)

	// Skill: 10 * 1.5 - 5 = 10 damage
	caster := NewCombatant("Wizard", SideAlly, 0, 15, 10, 2, 100)
	target := NewCombatant("Orc", SideEnemy, 0, 30, 4, 5, 100)

	result := resolver.Resolve(HitSkill, caster, target)
	if result.Damage != 10 {
		t.Errorf("Expected 10 skill damage, got %d", result.Damage)
	}
}

func TestResolveLethal(t *testing.T) {
	resolver := NewEffectResolver(nil)

	attacker := NewCombatant("Rogue", SideAlly, 0, 20, 50, 3, 100)
	target := NewCombatant("Rat", SideEnemy, 0, 4, 1, 0, 100)

	result := resolver.Resolve(HitAttack, attacker, target)
	if !result.Killed {
		t.Error("Expected target to be killed")
	}
	if result.Damage != 4 {
		t.Errorf("Expected damage capped at remaining HP 4, got %d", result.Damage)
	}

	again := resolver.Resolve(HitAttack, attacker, target)
	if again.Success {
		t.Error("Hitting a dead target should fail")
	}
}

func TestResolveBreaksGuardian(t *testing.T) {
	resolver := NewEffectResolver(nil)

	attacker := NewCombatant("Pyro", SideAlly, 0, 20, 5, 3, 100)
	attacker.Element = guardian.ElementFire
	target := NewCombatant("Golem", SideEnemy, 0, 100, 1, 0, 100)
	target.Guard = guardian.NewGate(guardian.ElementFire)

	result := resolver.Resolve(HitAttack, attacker, target)
	if !result.StoneBroken {
		t.Error("Expected stone to break")
	}
	if !result.BreakStart {
		t.Error("Expected break state to start")
	}
	if target.CanAct() {
		t.Error("Broken target should not be able to act")
	}

	again := resolver.Resolve(HitAttack, attacker, target)
	if again.BreakStart {
		t.Error("Break should only be reported once")
	}
}

func TestCalculateDamagePreview(t *testing.T) {
	resolver := NewEffectResolver(nil)

	attacker := NewCombatant("Warrior", SideAlly, 0, 30, 8, 6, 100)
	target := NewCombatant("Goblin", SideEnemy, 0, 15, 2, 3, 100)

	if damage := resolver.CalculateDamage(HitAttack, attacker, target); damage != 5 {
		t.Errorf("Expected preview damage 5, got %d", damage)
	}
	if target.HP != 15 {
		t.Error("Preview should not have damaged target")
	}
}

func TestCustomDamageFunc(t *testing.T) {
	resolver := NewEffectResolver(func(HitKind, *Combatant, *Combatant) int { return 7 })

	attacker := NewCombatant("A", SideAlly, 0, 10, 1, 1, 100)
	target := NewCombatant("B", SideEnemy, 0, 10, 1, 100, 100)

	if result := resolver.Resolve(HitAttack, attacker, target); result.Damage != 7 {
		t.Errorf("Expected custom damage 7, got %d", result.Damage)
	}
}
