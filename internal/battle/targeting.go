package battle

import "github.com/samdwyer/turnbattle/internal/combat"

// TargetPolicy is a side's default-target rule: given the acting side and
// slot it names an opponent, or nil.
type TargetPolicy interface {
	DefaultTarget(side combat.Side, slot int) *combat.Combatant
}

// AggroPicker chooses among living candidates by aggro.
type AggroPicker interface {
	FindTargetByAggro(candidates []*combat.Combatant) *combat.Combatant
}

// EnemyAI picks targets for enemy turns.
type EnemyAI interface {
	PickTarget(actor *combat.Combatant, candidates []*combat.Combatant) *combat.Combatant
}

// FirstLivingPolicy targets the first living opponent in slot order.
type FirstLivingPolicy struct {
	Allies, Enemies []*combat.Combatant
}

// DefaultTarget returns the first living combatant on the opposing side.
func (p FirstLivingPolicy) DefaultTarget(side combat.Side, _ int) *combat.Combatant {
	if side == combat.SideAlly {
		return combat.FirstAlive(p.Enemies)
	}
	return combat.FirstAlive(p.Allies)
}

// LowestHPAI targets the weakest living candidate.
type LowestHPAI struct{}

// PickTarget returns the living candidate with the lowest HP.
func (LowestHPAI) PickTarget(_ *combat.Combatant, candidates []*combat.Combatant) *combat.Combatant {
	var lowest *combat.Combatant
	for _, c := range candidates {
		if c.IsAlive() {
			if lowest == nil || c.HP < lowest.HP {
				lowest = c
			}
		}
	}
	return lowest
}

// ThreatAggro treats the hardest hitter as the biggest threat.
type ThreatAggro struct{}

// FindTargetByAggro returns the living candidate with the highest attack.
func (ThreatAggro) FindTargetByAggro(candidates []*combat.Combatant) *combat.Combatant {
	var top *combat.Combatant
	for _, c := range candidates {
		if c.IsAlive() {
			if top == nil || c.Attack > top.Attack {
				top = c
			}
		}
	}
	return top
}

// resolveTarget keeps bound when it is still a living opponent and otherwise
// falls back to the side's policies. Used both before a turn and between
// combo hits.
func (o *Orchestrator) resolveTarget(actor, bound *combat.Combatant) *combat.Combatant {
	if o.validTarget(actor, bound) {
		return bound
	}

	candidates := combat.Alive(o.opponents(actor.Side))
	if len(candidates) == 0 {
		return nil
	}

	var pick *combat.Combatant
	switch actor.Side {
	case combat.SideAlly:
		if o.aggro != nil {
			pick = o.aggro.FindTargetByAggro(candidates)
		}
	case combat.SideEnemy:
		if o.enemyAI != nil {
			pick = o.enemyAI.PickTarget(actor, candidates)
		}
	}
	if !o.validTarget(actor, pick) && o.targets != nil {
		pick = o.targets.DefaultTarget(actor.Side, actor.Slot)
	}
	if !o.validTarget(actor, pick) {
		pick = candidates[0]
	}
	return pick
}

func (o *Orchestrator) validTarget(actor, c *combat.Combatant) bool {
	return c.IsAlive() && c.Side != actor.Side
}

func (o *Orchestrator) opponents(side combat.Side) []*combat.Combatant {
	if side == combat.SideAlly {
		return o.enemies
	}
	return o.allies
}
