// Package entity assembles battle sides from the embedded rosters.
package entity

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/combat"
	"github.com/samdwyer/turnbattle/internal/gamedata"
	"github.com/samdwyer/turnbattle/internal/guardian"
)

// Look is how a combatant is drawn.
type Look struct {
	Glyph rune
	Color tcell.Color
}

// Roster is one assembled side plus the display attributes of its members.
type Roster struct {
	Combatants []*combat.Combatant
	looks      map[*combat.Combatant]Look
}

func newRoster(size int) *Roster {
	return &Roster{
		Combatants: make([]*combat.Combatant, 0, size),
		looks:      make(map[*combat.Combatant]Look, size),
	}
}

func (r *Roster) add(c *combat.Combatant, look Look) {
	r.Combatants = append(r.Combatants, c)
	r.looks[c] = look
}

// Look returns how c is drawn. Unknown combatants get a placeholder.
func (r *Roster) Look(c *combat.Combatant) Look {
	if look, ok := r.looks[c]; ok {
		return look
	}
	return Look{Glyph: '?', Color: tcell.ColorPurple}
}

// stats are the roster fields shared by classes and enemies.
type stats struct {
	hp, attack, defense int
	speed               float64
	element             guardian.Element
	stones              []guardian.Element
	maxBP               *int
}

func build(name string, side combat.Side, slot int, s stats) *combat.Combatant {
	c := combat.NewCombatant(name, side, slot, s.hp, s.attack, s.defense, s.speed)
	c.Element = s.element
	if s.maxBP != nil {
		c.BP = combat.NewBP(*s.maxBP)
	}
	if len(s.stones) > 0 {
		c.Guard = guardian.NewGate(s.stones...)
	}
	return c
}

// FromClass creates an ally combatant from a class definition.
func FromClass(def *gamedata.ClassDef, slot int) *combat.Combatant {
	return build(def.Name, combat.SideAlly, slot, stats{
		hp:      def.HP,
		attack:  def.Attack,
		defense: def.Defense,
		speed:   def.Speed,
		element: def.Element,
		stones:  def.Stones,
		maxBP:   def.MaxBP,
	})
}

// FromEnemy creates an enemy combatant from an enemy definition.
func FromEnemy(def *gamedata.EnemyDef, slot int) *combat.Combatant {
	return build(def.Name, combat.SideEnemy, slot, stats{
		hp:      def.HP,
		attack:  def.Attack,
		defense: def.Defense,
		speed:   def.Speed,
		element: def.Element,
		stones:  def.Stones,
		maxBP:   def.MaxBP,
	})
}

// disambiguate suffixes repeated names with A, B, C... in slot order so log
// lines and the event log can tell combatants apart. Names repeated more
// times than there are letters are numbered from 1 instead.
func disambiguate(cs []*combat.Combatant) {
	counts := make(map[string]int, len(cs))
	for _, c := range cs {
		counts[c.Name]++
	}
	seen := make(map[string]int, len(cs))
	for _, c := range cs {
		base := c.Name
		n := counts[base]
		if n < 2 {
			continue
		}
		if n <= 26 {
			c.Name = fmt.Sprintf("%s %c", base, 'A'+rune(seen[base]))
		} else {
			c.Name = fmt.Sprintf("%s %d", base, seen[base]+1)
		}
		seen[base]++
	}
}
