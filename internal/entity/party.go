package entity

import (
	"errors"

	"github.com/samdwyer/turnbattle/internal/gamedata"
)

// ErrEmptySide is returned when a side would start the battle with nobody.
var ErrEmptySide = errors.New("side has no combatants")

// NewParty builds the ally side: size members taken from the class roster in
// order, one per slot.
func NewParty(classes *gamedata.ClassRegistry, size int) (*Roster, error) {
	lineup := classes.Lineup(size)
	if len(lineup) == 0 {
		return nil, ErrEmptySide
	}

	party := newRoster(len(lineup))
	for slot, def := range lineup {
		party.add(FromClass(def, slot), Look{Glyph: def.SymbolRune(), Color: def.TCellColor()})
	}
	disambiguate(party.Combatants)
	return party, nil
}
