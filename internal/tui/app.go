// Package tui provides the terminal user interface for sensi.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/styles"
)

// Model is the main TUI model.
type Model struct {
	results   Results
	input     Input
	statusBar StatusBar

	width  int
	height int

	watching bool

	// onCommand executes one line of input and returns the text to show.
	onCommand func(string) (string, error)
	// onStopWatch stops game detection.
	onStopWatch func() error

	ready bool
}

// NewModel creates a new TUI model.
func NewModel() Model {
	return Model{
		results:   NewResults(80, 20),
		input:     NewInput(80),
		statusBar: NewStatusBar(80),
	}
}

// SetOnCommand sets the callback for executing input lines.
func (m *Model) SetOnCommand(fn func(string) (string, error)) {
	m.onCommand = fn
}

// SetOnStopWatch sets the callback used by Esc to stop watching.
func (m *Model) SetOnStopWatch(fn func() error) {
	m.onStopWatch = fn
}

// SetGames sets the names offered by tab completion.
func (m *Model) SetGames(names []string) {
	m.input.SetGames(names)
}

// SetBaseline sets the status bar baseline summary.
func (m *Model) SetBaseline(text string) {
	m.statusBar.SetBaseline(text)
}

// AddEntry appends an entry to the results log (called before the program starts).
func (m *Model) AddEntry(e Entry) {
	m.results.Add(e)
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.statusBar.Init(),
		m.input.Focus(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Layout: Results (fills) + Input (2 lines) + Status (2 lines)
		inputHeight := 2
		statusHeight := 2
		resultsHeight := m.height - inputHeight - statusHeight
		if resultsHeight < 5 {
			resultsHeight = 5
		}

		m.results.SetSize(m.width, resultsHeight)
		m.input.SetWidth(m.width)
		m.statusBar.SetWidth(m.width)

		m.ready = true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Escape):
			if m.watching && m.onStopWatch != nil {
				return m, m.stopWatch()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			m.input.AddToHistory(value)
			m.input.Reset()

			if value == "/exit" || value == "/quit" || value == "exit" || value == "quit" {
				return m, tea.Quit
			}

			m.results.Add(Entry{Kind: EntryCommand, Text: value})
			m.results.GotoBottom()
			return m, m.executeCommand(value)

		case key.Matches(msg, keys.PageUp), key.Matches(msg, keys.PageDown):
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		cmds = append(cmds, cmd)

	case StatusBarTickMsg:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(msg)
		cmds = append(cmds, cmd)

	case ResultMsg:
		if msg.Output != "" {
			m.results.Add(Entry{Kind: EntryResult, Text: msg.Output})
		}
		m.statusBar.ClearError()
		cmds = append(cmds, m.statusBar.AnimateInfo())

	case ErrorMsg:
		m.results.Add(Entry{Kind: EntryError, Text: msg.Error})
		cmds = append(cmds, m.statusBar.SetError(truncate(msg.Error, 100)))

	case BaselineMsg:
		m.statusBar.SetBaseline(msg.Text)

	case GameDetectedMsg:
		text := "Detected " + msg.Game
		if msg.Suggestion != "" {
			text += "\n" + msg.Suggestion
		}
		m.results.Add(Entry{Kind: EntryDetect, Text: text})
		status := msg.Game
		if msg.Suggestion != "" {
			status = msg.Suggestion
		}
		cmds = append(cmds, m.statusBar.SetGame(status))

	case GameLostMsg:
		m.results.Add(Entry{Kind: EntryInfo, Text: msg.Game + " closed"})
		m.statusBar.ClearGame()

	case WatchStartedMsg:
		m.watching = true
		m.statusBar.SetWatching(true)
		m.results.Add(Entry{Kind: EntryInfo, Text: fmt.Sprintf("Watching for running games every %s (Esc stops)", msg.Interval)})

	case WatchStoppedMsg:
		m.watching = false
		m.statusBar.SetWatching(false)
		m.statusBar.ClearGame()
		m.results.Add(Entry{Kind: EntryInfo, Text: "Watching stopped"})
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	const minWidth = 60
	const minHeight = 12
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf(
			"Terminal too small!\n\nMinimum: %dx%d\nCurrent: %dx%d\n\nPlease resize.",
			minWidth, minHeight, m.width, m.height,
		)
	}

	content := m.results.View() + "\n" + m.input.View() + "\n" + m.statusBar.View()

	baseStyle := lipgloss.NewStyle().
		Background(styles.ColorBg).
		Width(m.width).
		Height(m.height)

	return baseStyle.Render(content)
}

// executeCommand runs a line through the command callback off the update loop.
func (m Model) executeCommand(line string) tea.Cmd {
	return func() tea.Msg {
		if m.onCommand == nil {
			return ErrorMsg{Error: "no command handler configured"}
		}

		out, err := m.onCommand(line)
		if err != nil {
			log.Debug().Err(err).Str("input", line).Msg("Command failed")
			return ErrorMsg{Error: err.Error()}
		}
		return ResultMsg{Output: out}
	}
}

func (m Model) stopWatch() tea.Cmd {
	return func() tea.Msg {
		if err := m.onStopWatch(); err != nil {
			return ErrorMsg{Error: err.Error()}
		}
		return nil
	}
}

// Key bindings
var keys = struct {
	Quit     key.Binding
	Escape   key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c")),
	Escape:   key.NewBinding(key.WithKeys("esc")),
	Enter:    key.NewBinding(key.WithKeys("enter")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
}

// Message types for external communication
type (
	// ResultMsg carries the output of a command.
	ResultMsg struct {
		Output string
	}

	// ErrorMsg is sent when an error occurs.
	ErrorMsg struct {
		Error string
	}

	// BaselineMsg updates the status bar baseline summary.
	BaselineMsg struct {
		Text string
	}

	// GameDetectedMsg is sent when a game starts running.
	GameDetectedMsg struct {
		Game       string
		Suggestion string // empty without a baseline
	}

	// GameLostMsg is sent when a detected game stops.
	GameLostMsg struct {
		Game string
	}

	// WatchStartedMsg is sent when game detection starts.
	WatchStartedMsg struct {
		Interval time.Duration
	}

	// WatchStoppedMsg is sent when game detection stops.
	WatchStoppedMsg struct{}
)

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
