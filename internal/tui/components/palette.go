package components

import "github.com/charmbracelet/lipgloss"

// palette is a small, fixed Catppuccin-Mocha-derived color set used by the
// table component. It replaces a per-project theme package: miniql ships
// one look rather than a switchable theme registry.
type palette struct {
	Text     lipgloss.Color
	Blue     lipgloss.Color
	Surface  lipgloss.Color
	Surface0 lipgloss.Color
	Overlay0 lipgloss.Color
}

var current = palette{
	Text:     lipgloss.Color("#cdd6f4"),
	Blue:     lipgloss.Color("#89b4fa"),
	Surface:  lipgloss.Color("#313244"),
	Surface0: lipgloss.Color("#181825"),
	Overlay0: lipgloss.Color("#6c7086"),
}
