// Package battle runs turns: it pulls the next combatant from the scheduler,
// resolves a target, dispatches the command through the action state
// machines and reports what happened.
package battle

// Outcome is how a battle ended.
type Outcome int

const (
	// OutcomeOngoing - the battle has not ended
	OutcomeOngoing Outcome = iota
	// OutcomeVictory - all enemies defeated
	OutcomeVictory
	// OutcomeDefeat - all allies defeated
	OutcomeDefeat
	// OutcomeDraw - nobody is left standing on either side
	OutcomeDraw
	// OutcomeAborted - the battle was cancelled from outside
	OutcomeAborted
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeDraw:
		return "draw"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
