package entity

import (
	"fmt"
	"math/rand"

	"github.com/samdwyer/turnbattle/internal/gamedata"
)

// SpawnGroup builds the enemy side: count enemies drawn by spawn weight.
func SpawnGroup(enemies *gamedata.EnemyRegistry, rng *rand.Rand, count int) (*Roster, error) {
	if count <= 0 {
		return nil, ErrEmptySide
	}

	group := newRoster(count)
	for slot := 0; slot < count; slot++ {
		def := enemies.SpawnRandom(rng)
		if def == nil {
			return nil, fmt.Errorf("spawn enemy %d: %w", slot, ErrEmptySide)
		}
		group.add(FromEnemy(def, slot), Look{Glyph: def.GlyphRune(), Color: def.TCellColor()})
	}
	disambiguate(group.Combatants)
	return group, nil
}
