// Package styles provides the shared lipgloss palette for CLI and TUI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors - crosshair green on a dark range background
var (
	// Brand colors
	ColorBrand    = lipgloss.Color("#39FF88") // Crosshair green
	ColorAccent   = lipgloss.Color("#FFB000") // Amber, used for numbers
	ColorBrandDim = lipgloss.Color("#1F9E55")

	// Semantic colors
	ColorError   = lipgloss.Color("#FF3B5C")
	ColorSuccess = lipgloss.Color("#39FF88")
	ColorMuted   = lipgloss.Color("#6C7A89")

	// Backgrounds
	ColorBg     = lipgloss.Color("#0B0F12")
	ColorBorder = lipgloss.Color("#25323C")
)

// CLI text styles
var (
	Brand = lipgloss.NewStyle().
		Foreground(ColorBrand)

	BrandBold = lipgloss.NewStyle().
			Foreground(ColorBrand).
			Bold(true)

	Secondary = lipgloss.NewStyle().
			Foreground(ColorAccent)

	Value = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(ColorMuted)

	Error = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	Success = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
)
