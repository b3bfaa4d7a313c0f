package game

import (
	"github.com/samdwyer/turnbattle/internal/battle"
	"github.com/samdwyer/turnbattle/internal/combat"
)

// tactician plays the party: a wounded member spends one BP on a rallying
// skill, everyone else fights like the auto commander.
type tactician struct {
	battle.AutoCommander
}

func (t tactician) Decide(actor *combat.Combatant, view battle.View) battle.Decision {
	if actor.HP*2 <= actor.MaxHP && actor.BP.Current() > 0 {
		return battle.Decision{Command: battle.CommandSkill, BP: 1}
	}
	return t.AutoCommander.Decide(actor, view)
}

// rally heals the skill user for every BP put into the skill.
type rally struct {
	perBP int
}

func (r rally) Enhance(actor, _ *combat.Combatant, bp int) {
	actor.Heal(r.perBP * bp)
}
