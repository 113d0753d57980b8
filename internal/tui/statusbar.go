package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/sensi/internal/styles"
)

// StatusBar manages the bottom status bar with animated icons and status text.
type StatusBar struct {
	width int

	// Icon animation state
	detectFrames int // Remaining animation frames for the detection icon
	infoFrames   int // Remaining animation frames for the info icon
	errorFrames  int // Remaining animation frames for the error icon

	currentFrame int // Current animation frame (0-11 for 12 frames)

	// Status text
	errorText    string
	gameText     string
	baselineText string
	watching     bool
}

const (
	animationFPSFast     = 8  // frames per second at start
	animationFPSSlow     = 2  // frames per second while decelerating
	framesPerCycle       = 12 // frames in one complete cycle
	fastCycles           = 2  // fast cycles before deceleration
	decelerationFrames   = 12
	totalAnimationFrames = (fastCycles * framesPerCycle) + decelerationFrames
)

// StatusBarTickMsg is sent every animation frame.
type StatusBarTickMsg struct{}

// NewStatusBar creates a new status bar.
func NewStatusBar(width int) StatusBar {
	return StatusBar{width: width}
}

// Init initializes the status bar.
func (s StatusBar) Init() tea.Cmd {
	return s.tick()
}

func (s StatusBar) maxFrames() int {
	return max(s.detectFrames, s.infoFrames, s.errorFrames)
}

// tick returns a command that sends a tick message after the animation interval.
// Ticking is fast at first, slows while decelerating, and stops when idle.
func (s StatusBar) tick() tea.Cmd {
	maxFrames := s.maxFrames()
	if maxFrames == 0 {
		return nil
	}

	tickRate := time.Second / animationFPSSlow
	if maxFrames > decelerationFrames {
		tickRate = time.Second / animationFPSFast
	}

	return tea.Tick(tickRate, func(time.Time) tea.Msg {
		return StatusBarTickMsg{}
	})
}

// Update handles status bar updates.
func (s StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	if _, ok := msg.(StatusBarTickMsg); ok {
		s.currentFrame = (s.currentFrame + 1) % framesPerCycle
		if s.detectFrames > 0 {
			s.detectFrames--
		}
		if s.infoFrames > 0 {
			s.infoFrames--
		}
		if s.errorFrames > 0 {
			s.errorFrames--
		}
		return s, s.tick()
	}
	return s, nil
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// animate resets frames to a full cycle and restarts ticking when idle.
func (s *StatusBar) animate(frames *int) tea.Cmd {
	wasIdle := s.maxFrames() == 0
	*frames = totalAnimationFrames
	if wasIdle {
		return s.tick()
	}
	return nil
}

// AnimateInfo triggers the info icon animation.
func (s *StatusBar) AnimateInfo() tea.Cmd {
	return s.animate(&s.infoFrames)
}

// SetError sets the error text and flashes the error icon.
func (s *StatusBar) SetError(text string) tea.Cmd {
	s.errorText = text
	return s.animate(&s.errorFrames)
}

// ClearError clears the error text.
func (s *StatusBar) ClearError() {
	s.errorText = ""
}

// SetGame shows the detected game and pulses the detection icon.
func (s *StatusBar) SetGame(text string) tea.Cmd {
	s.gameText = text
	return s.animate(&s.detectFrames)
}

// ClearGame clears the detected game.
func (s *StatusBar) ClearGame() {
	s.gameText = ""
}

// SetBaseline sets the baseline summary shown when nothing else is.
func (s *StatusBar) SetBaseline(text string) {
	s.baselineText = text
}

// SetWatching toggles the watch indicator.
func (s *StatusBar) SetWatching(on bool) {
	s.watching = on
}

// View renders the status bar.
func (s StatusBar) View() string {
	leftIcons := IconDetectStyle.Render(s.renderIcon(s.detectFrames, detectIcons)) +
		IconInfoStyle.Render(s.renderIcon(s.infoFrames, infoIcons)) +
		IconErrorStyle.Render(s.renderIcon(s.errorFrames, errorIcons))

	watchIcon := "○"
	if s.watching {
		watchIcon = "◉"
	}

	spaceStyle := lipgloss.NewStyle().Background(styles.ColorBg)
	leftPart := spaceStyle.Render(" ") + leftIcons + spaceStyle.Render(" ") // 11 chars
	rightPart := spaceStyle.Render(" ") + IconWatchStyle.Render(watchIcon)  // 4 chars

	text, textStyle := s.renderStatusText()

	availableWidth := s.width - 11 - 4
	if availableWidth < 0 {
		availableWidth = 0
	}
	runes := []rune(text)
	if availableWidth < 3 {
		text = ""
	} else if len(runes) > availableWidth {
		text = string(runes[:availableWidth-3]) + "..."
	}

	textPart := textStyle.
		Background(styles.ColorBg).
		Width(availableWidth).
		Render(text)

	return StatusBarStyle.Render(leftPart + textPart + rightPart)
}

// renderIcon shows the last frame when idle and cycles while animating.
func (s StatusBar) renderIcon(frames int, icons []string) string {
	if frames <= 0 {
		return icons[len(icons)-1]
	}
	return icons[s.currentFrame%len(icons)]
}

// renderStatusText returns the status text and its style.
// Priority: Error > Detected game > Baseline > Default
func (s StatusBar) renderStatusText() (string, lipgloss.Style) {
	if s.errorText != "" {
		return s.errorText, StatusTextErrorStyle
	}
	if s.gameText != "" {
		return "◎ " + s.gameText, StatusTextOKStyle
	}
	if s.baselineText != "" {
		return s.baselineText, StatusTextStyle
	}
	return "No baseline set: /baseline set <cm/360> <dpi>", StatusTextStyle
}

// Icon animation sequences, each ending at its idle frame
var (
	detectIcons = []string{"◎", "◉", "●", "◉", "◎", "○", "◎", "◉", "●", "◉", "◎", "○"}
	infoIcons   = []string{"●", "●", "◉", "◉", "◎", "◎", "○", "○", "◌", "◌", "○", "◌"}
	errorIcons  = []string{"✖", "✖", "✖", "✕", "✕", "✕", "✖", "✕", "✕", " ", "✕", " "}
)
