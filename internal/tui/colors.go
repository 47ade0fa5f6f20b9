package tui

import "github.com/balkashynov/grind/internal/models"

// Color constants for grind TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Exercise names, titles
	ColorSecondaryText = "#B1B8C7" // Secondary text - subtle purple-tinted grey
	ColorDisabledText  = "#6D7383" // Done sets, muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Logo, accent elements, active borders
	ColorAccentBright = "#A78BFA" // Highlights, current unit

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E" // Completion, saved
	ColorWarning = "#F59E0B" // Rest phase, pulse flash
)

// AttributeColors maps each attribute to its bar colour on summary screens
var AttributeColors = map[models.Attribute]string{
	models.AttrStrength:    "#EF4444",
	models.AttrCardio:      "#F59E0B",
	models.AttrFlexibility: "#22C55E",
	models.AttrAgility:     "#38BDF8",
	models.AttrMind:        "#A78BFA",
}
