package battle

import (
	"errors"

	"github.com/samdwyer/turnbattle/internal/combat"
)

// Command names understood by the orchestrator.
const (
	CommandAttack = "attack"
	CommandSkill  = "skill"
)

var (
	// ErrUnknownCommand is logged when a commander returns an unrecognized command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoTarget is reported when the opposing side has nobody left to hit.
	ErrNoTarget = errors.New("no living target")
)

// Decision is what a commander wants the acting combatant to do.
type Decision struct {
	Command string
	BP      int               // BP to spend; 0 means a plain command
	Target  *combat.Combatant // Optional preferred target
}

// View is the read-only battle state handed to commanders.
type View struct {
	Round   int
	Allies  []*combat.Combatant
	Enemies []*combat.Combatant
}

// Commander decides a combatant's action for its turn.
type Commander interface {
	Decide(actor *combat.Combatant, view View) Decision
}

// CommanderFunc adapts a function to Commander.
type CommanderFunc func(actor *combat.Combatant, view View) Decision

// Decide calls f.
func (f CommanderFunc) Decide(actor *combat.Combatant, view View) Decision {
	return f(actor, view)
}

// AutoCommander attacks every turn and unloads its BP as a combo once the
// counter is full.
type AutoCommander struct{}

// Decide returns an attack, as a full-BP combo when BP is capped.
func (AutoCommander) Decide(actor *combat.Combatant, _ View) Decision {
	d := Decision{Command: CommandAttack}
	if limit := actor.BP.Max(); limit > 0 && actor.BP.Current() == limit {
		d.BP = limit
	}
	return d
}

// SkillEnhancer applies the extra effect of BP spent on a skill.
type SkillEnhancer interface {
	Enhance(actor, target *combat.Combatant, bp int)
}
