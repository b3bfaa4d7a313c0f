package gamedata

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/guardian"
)

// ClassDef defines a playable class loaded from JSON.
type ClassDef struct {
	ID      string             `json:"id"`      // Unique identifier (e.g., "warrior")
	Name    string             `json:"name"`    // Display name (e.g., "Warrior")
	Symbol  string             `json:"symbol"`  // Single character for rendering (e.g., "W")
	Color   string             `json:"color"`   // Hex color code
	HP      int                `json:"hp"`      // Base hit points
	Attack  int                `json:"attack"`  // Base attack power
	Defense int                `json:"defense"` // Base defense value
	Speed   float64            `json:"speed"`   // Turn speed; 0 uses the default
	Element guardian.Element   `json:"element"` // Element of this class's attacks
	Stones  []guardian.Element `json:"stones"`  // Guardian stones, empty for none
	MaxBP   *int               `json:"maxBP"`   // BP cap; omitted means the global maximum
}

// SymbolRune returns the symbol as a rune for rendering.
func (c *ClassDef) SymbolRune() rune {
	if len(c.Symbol) == 0 {
		return '?'
	}
	return rune(c.Symbol[0])
}

// TCellColor returns the class color, white if unset.
func (c *ClassDef) TCellColor() tcell.Color {
	return colorOr(c.Color, tcell.ColorWhite)
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Classes []ClassDef `json:"classes"`
}

// Validate checks every class definition.
func (f *ClassesFile) Validate() error {
	var errs []error
	for i := range f.Classes {
		c := &f.Classes[i]
		if err := validateStats(c.ID, c.HP, c.Speed, c.Element, c.Stones, c.MaxBP); err != nil {
			errs = append(errs, fmt.Errorf("class %q: %w", c.ID, err))
		}
	}
	return errors.Join(errs...)
}

// LoadClasses loads class definitions from the embedded classes.json file.
func LoadClasses() ([]ClassDef, error) {
	file, err := Load[ClassesFile]("classes.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}

// MustLoadClasses loads class definitions, panicking on error.
func MustLoadClasses() []ClassDef {
	classes, err := LoadClasses()
	if err != nil {
		panic(err)
	}
	return classes
}
