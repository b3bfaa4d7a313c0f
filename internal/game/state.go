// Package game runs a battle session: it assembles both sides, drives the
// orchestrator and presents the result in the terminal or as a text log.
package game

// State represents the current game state.
type State int

const (
	// StateSetup is before the sides have been assembled.
	StateSetup State = iota
	// StateBattle is while turns are being played.
	StateBattle
	// StateOver is after the battle has ended, whatever the outcome.
	StateOver
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateBattle:
		return "battle"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}
