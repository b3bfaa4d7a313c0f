package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/guardian"
)

// ParseHexColor converts a hex color string ("#FF0000" or "FF0000") to a
// tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %q", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return tcell.NewHexColor(int32(rgb)), nil
}

// MustParseHexColor converts a hex color string to tcell.Color, panicking on error.
func MustParseHexColor(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}

// colorOr parses hex, falling back when it is empty or malformed.
func colorOr(hex string, fallback tcell.Color) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return color
}

var elementColors = map[guardian.Element]tcell.Color{
	guardian.ElementFire:  tcell.ColorOrangeRed,
	guardian.ElementWater: tcell.ColorDodgerBlue,
	guardian.ElementWind:  tcell.ColorLightGreen,
	guardian.ElementEarth: tcell.ColorSandyBrown,
	guardian.ElementLight: tcell.ColorLightYellow,
	guardian.ElementDark:  tcell.ColorMediumPurple,
}

// ElementColor returns the display color of an element.
func ElementColor(e guardian.Element) tcell.Color {
	if c, ok := elementColors[e]; ok {
		return c
	}
	return tcell.ColorGray
}

// KnownElement reports whether e is one of the defined elements.
func KnownElement(e guardian.Element) bool {
	_, ok := elementColors[e]
	return ok
}
