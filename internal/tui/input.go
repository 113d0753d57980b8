package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/sensi/internal/styles"
)

const maxHistorySize = 100

// commandNames are completed after a leading slash.
var commandNames = []string{
	"/games", "/game", "/convert", "/baseline", "/history",
	"/clear-history", "/watch", "/help", "/quit",
}

// Input handles command entry with history navigation and tab completion.
type Input struct {
	textInput    textinput.Model
	history      []string // Previous inputs
	historyIndex int      // Current position in history (-1 = not browsing)
	draft        string   // Saved draft when browsing history
	games        []string // Game names for completion
	width        int
}

// NewInput creates a new input component.
func NewInput(width int) Input {
	ti := textinput.New()
	ti.Placeholder = "Game name or /command (tab completes)..."
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = width - 6 // Account for: border (2) + padding (2) + prompt (2)
	ti.Focus()

	ti.PromptStyle = InputPromptStyle
	ti.TextStyle = InputTextStyle
	ti.PlaceholderStyle = InputPlaceholderStyle

	return Input{
		textInput:    ti,
		history:      make([]string, 0, maxHistorySize),
		historyIndex: -1,
		width:        width,
	}
}

// SetGames sets the game names offered by tab completion.
func (i *Input) SetGames(names []string) {
	i.games = names
}

// SetWidth updates the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.Width = width - 6
}

// Focus focuses the input.
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Value returns the current input value.
func (i Input) Value() string {
	return i.textInput.Value()
}

// SetValue sets the input value.
func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// Reset clears the input.
func (i *Input) Reset() {
	i.textInput.Reset()
	i.historyIndex = -1
	i.draft = ""
}

// AddToHistory adds an input line to the history.
func (i *Input) AddToHistory(line string) {
	if line == "" {
		return
	}

	// Avoid duplicate consecutive entries
	if len(i.history) > 0 && i.history[len(i.history)-1] == line {
		return
	}

	i.history = append(i.history, line)
	if len(i.history) > maxHistorySize {
		i.history = i.history[len(i.history)-maxHistorySize:]
	}
}

// Input key bindings
var inputKeys = struct {
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("up")),
	Down:     key.NewBinding(key.WithKeys("down")),
	Complete: key.NewBinding(key.WithKeys("tab")),
}

// Update handles input updates.
func (i Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, inputKeys.Up):
			i.navigateHistory(1)
			return i, nil
		case key.Matches(keyMsg, inputKeys.Down):
			i.navigateHistory(-1)
			return i, nil
		case key.Matches(keyMsg, inputKeys.Complete):
			i.complete()
			return i, nil
		}
	}

	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

// navigateHistory moves through the history.
// direction: 1 = older (up), -1 = newer (down)
func (i *Input) navigateHistory(direction int) {
	if len(i.history) == 0 {
		return
	}

	if i.historyIndex == -1 && direction == 1 {
		i.draft = i.textInput.Value()
	}

	newIndex := i.historyIndex + direction
	if newIndex < -1 {
		newIndex = -1
	}
	if newIndex >= len(i.history) {
		newIndex = len(i.history) - 1
	}
	i.historyIndex = newIndex

	if i.historyIndex == -1 {
		i.textInput.SetValue(i.draft)
	} else {
		// Most recent is at end of slice
		i.textInput.SetValue(i.history[len(i.history)-1-i.historyIndex])
	}
	i.textInput.CursorEnd()
}

// complete expands the last word of the input. A lone leading word starting
// with "/" completes to a command; anything else completes to a game name,
// quoted when it contains spaces.
func (i *Input) complete() {
	value := i.textInput.Value()
	head, word := splitLastWord(value)

	var candidates []string
	if head == "" && strings.HasPrefix(word, "/") {
		candidates = commandNames
	} else {
		candidates = i.games
	}

	match := completion(strings.TrimPrefix(word, `"`), candidates)
	if match == "" {
		return
	}
	if strings.Contains(match, " ") {
		match = `"` + match + `"`
	}
	i.textInput.SetValue(head + match)
	i.textInput.CursorEnd()
}

// splitLastWord splits value before its last word. A word that starts with
// an unclosed quote runs to the end of the value.
func splitLastWord(value string) (head, word string) {
	if n := strings.Count(value, `"`); n%2 == 1 {
		idx := strings.LastIndex(value, `"`)
		return value[:idx], value[idx:]
	}
	idx := strings.LastIndex(value, " ")
	return value[:idx+1], value[idx+1:]
}

// completion returns the first candidate with prefix, case-insensitively.
func completion(prefix string, candidates []string) string {
	if prefix == "" {
		return ""
	}
	lower := strings.ToLower(prefix)
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), lower) {
			return c
		}
	}
	return ""
}

// View renders the input.
func (i Input) View() string {
	// The textinput placeholder ignores our background color
	if i.textInput.Value() == "" {
		prompt := InputPromptStyle.Render(i.textInput.Prompt)
		placeholderStyle := lipgloss.NewStyle().
			Background(styles.ColorBg).
			Foreground(styles.ColorMuted)

		return InputBorderStyle.Width(i.width).Render(prompt + placeholderStyle.Render(i.textInput.Placeholder))
	}

	bgStyle := lipgloss.NewStyle().
		Background(styles.ColorBg).
		Width(i.width - 2)

	return InputBorderStyle.Width(i.width).Render(bgStyle.Render(i.textInput.View()))
}
