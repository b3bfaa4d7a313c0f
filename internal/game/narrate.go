package game

import (
	"fmt"

	"github.com/samdwyer/turnbattle/internal/battle"
)

// Describe turns an event into a log line. Events not worth showing give "".
func Describe(e battle.Event) string {
	switch e.Kind {
	case battle.EventRoundStarted:
		return fmt.Sprintf("Round %d", e.Round)
	case battle.EventTurnStarted:
		return fmt.Sprintf("%s's turn (BP %d)", e.Actor.Name, e.Actor.BP)
	case battle.EventAttack:
		return fmt.Sprintf("%s attacks %s for %d damage", e.Actor.Name, e.Target.Name, e.Damage)
	case battle.EventSkill:
		return fmt.Sprintf("%s uses a skill on %s for %d damage", e.Actor.Name, e.Target.Name, e.Damage)
	case battle.EventComboHit:
		return fmt.Sprintf("%s combo hit %d on %s for %d damage", e.Actor.Name, e.Hit, e.Target.Name, e.Damage)
	case battle.EventDefeated:
		return fmt.Sprintf("%s is defeated", e.Target.Name)
	case battle.EventGuardianBreak:
		return fmt.Sprintf("%s's guardian stones shatter! BREAK", e.Target.Name)
	case battle.EventGuardianRecover:
		return fmt.Sprintf("%s recovers from break", e.Target.Name)
	case battle.EventTurnAborted:
		return fmt.Sprintf("%s's turn is skipped: %s", e.Actor.Name, e.Reason)
	case battle.EventBattleEnded:
		return fmt.Sprintf("Battle over: %s", e.Outcome)
	default:
		return ""
	}
}
