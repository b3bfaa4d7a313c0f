package gamedata

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/combat"
	"github.com/samdwyer/turnbattle/internal/guardian"
)

// EnemyDef defines an enemy type loaded from JSON.
type EnemyDef struct {
	ID          string             `json:"id"`          // Unique identifier (e.g., "goblin")
	Name        string             `json:"name"`        // Display name (e.g., "Goblin")
	Glyph       string             `json:"glyph"`       // Single character for rendering (e.g., "g")
	Color       string             `json:"color"`       // Hex color code (e.g., "#00FF00")
	HP          int                `json:"hp"`          // Base hit points
	Attack      int                `json:"attack"`      // Base attack power
	Defense     int                `json:"defense"`     // Base defense value
	Speed       float64            `json:"speed"`       // Turn speed; 0 uses the default
	Element     guardian.Element   `json:"element"`     // Element of this enemy's attacks
	Stones      []guardian.Element `json:"stones"`      // Guardian stones, empty for none
	MaxBP       *int               `json:"maxBP"`       // BP cap; omitted means the global maximum
	SpawnWeight int                `json:"spawnWeight"` // Relative spawn frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	return colorOr(e.Color, tcell.ColorWhite)
}

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// Validate checks every enemy definition.
func (f *EnemiesFile) Validate() error {
	var errs []error
	for i := range f.Enemies {
		e := &f.Enemies[i]
		if err := validateStats(e.ID, e.HP, e.Speed, e.Element, e.Stones, e.MaxBP); err != nil {
			errs = append(errs, fmt.Errorf("enemy %q: %w", e.ID, err))
		}
		if e.SpawnWeight < 0 {
			errs = append(errs, fmt.Errorf("enemy %q: negative spawn weight %d", e.ID, e.SpawnWeight))
		}
	}
	return errors.Join(errs...)
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := Load[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}

// MustLoadEnemies loads enemy definitions, panicking on error.
func MustLoadEnemies() []EnemyDef {
	enemies, err := LoadEnemies()
	if err != nil {
		panic(err)
	}
	return enemies
}

func validateStats(id string, hp int, speed float64, element guardian.Element, stones []guardian.Element, maxBP *int) error {
	var errs []error
	if id == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if hp <= 0 {
		errs = append(errs, fmt.Errorf("hp must be positive, got %d", hp))
	}
	if speed < 0 {
		errs = append(errs, fmt.Errorf("speed must not be negative, got %v", speed))
	}
	if element != guardian.ElementNone && !KnownElement(element) {
		errs = append(errs, fmt.Errorf("unknown element %q", element))
	}
	for _, s := range stones {
		if !KnownElement(s) {
			errs = append(errs, fmt.Errorf("unknown stone element %q", s))
		}
	}
	if maxBP != nil && (*maxBP < 0 || *maxBP > combat.MaxBP) {
		errs = append(errs, fmt.Errorf("maxBP must be within 0..%d, got %d", combat.MaxBP, *maxBP))
	}
	return errors.Join(errs...)
}
