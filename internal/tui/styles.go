package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/sensi/internal/styles"
)

// TUI-specific styles building on base styles
var (
	// Results log
	LogStyle = lipgloss.NewStyle().
			Background(styles.ColorBg)

	CommandStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBrand).
			Background(styles.ColorBg).
			Bold(true)

	ResultStyle = lipgloss.NewStyle().
			Foreground(styles.ColorAccent).
			Background(styles.ColorBg)

	DetectStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBrand).
			Background(styles.ColorBg).
			Italic(true)

	EntryErrorStyle = lipgloss.NewStyle().
			Foreground(styles.ColorError).
			Background(styles.ColorBg)

	// Input styles
	InputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), true, false, false, false). // Top border only
				BorderForeground(styles.ColorBorder).
				Background(styles.ColorBg).
				Padding(0, 1)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(styles.ColorBrand).
				Background(styles.ColorBg).
				Bold(true)

	InputTextStyle = lipgloss.NewStyle().
			Foreground(styles.ColorAccent).
			Background(styles.ColorBg)

	InputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(styles.ColorMuted).
				Background(styles.ColorBg).
				Italic(true)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false). // Top border only
			BorderForeground(styles.ColorBorder).
			Background(styles.ColorBg)

	// Status icon styles (3-char width each)
	IconDetectStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBrand).
			Background(styles.ColorBg).
			Width(3).
			Align(lipgloss.Center)

	IconInfoStyle = lipgloss.NewStyle().
			Foreground(styles.ColorAccent).
			Background(styles.ColorBg).
			Width(3).
			Align(lipgloss.Center)

	IconErrorStyle = lipgloss.NewStyle().
			Foreground(styles.ColorError).
			Background(styles.ColorBg).
			Width(3).
			Align(lipgloss.Center)

	IconWatchStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBrandDim).
			Background(styles.ColorBg).
			Width(3).
			Align(lipgloss.Center)

	// Status text styles
	StatusTextStyle = lipgloss.NewStyle().
			Foreground(styles.ColorMuted).
			Background(styles.ColorBg)

	StatusTextErrorStyle = lipgloss.NewStyle().
				Foreground(styles.ColorError).
				Background(styles.ColorBg)

	StatusTextOKStyle = lipgloss.NewStyle().
				Foreground(styles.ColorSuccess).
				Background(styles.ColorBg)

	DimmedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorMuted).
			Background(styles.ColorBg)
)

// EntryStyle returns the style for a results log entry.
func EntryStyle(kind EntryKind) lipgloss.Style {
	switch kind {
	case EntryCommand:
		return CommandStyle
	case EntryResult:
		return ResultStyle
	case EntryDetect:
		return DetectStyle
	case EntryError:
		return EntryErrorStyle
	default:
		return DimmedStyle
	}
}
