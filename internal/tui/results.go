package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/sensi/internal/styles"
)

// maxEntries bounds the results log.
const maxEntries = 500

// EntryKind classifies a results log entry.
type EntryKind int

const (
	EntryInfo EntryKind = iota
	EntryCommand
	EntryResult
	EntryDetect
	EntryError
)

// Entry is one item in the results log.
type Entry struct {
	Kind      EntryKind
	Text      string
	CreatedAt time.Time
}

// Results manages the scrolling log of commands and their output.
type Results struct {
	viewport viewport.Model
	entries  []Entry
	width    int
	height   int
}

// NewResults creates a new results viewport.
func NewResults(width, height int) Results {
	vp := viewport.New(width, height)
	vp.Style = LogStyle
	vp.SetContent("")

	return Results{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// SetSize updates the viewport size.
func (r *Results) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.Width = width
	r.viewport.Height = height
	r.updateContent()
}

// Add appends an entry and re-renders.
func (r *Results) Add(e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, e)
	if len(r.entries) > maxEntries {
		r.entries = r.entries[len(r.entries)-maxEntries:]
	}
	r.updateContent()
}

// Entries returns the current entries.
func (r Results) Entries() []Entry {
	return r.entries
}

// updateContent renders all entries and sets viewport content.
func (r *Results) updateContent() {
	if len(r.entries) == 0 {
		r.viewport.SetContent(DimmedStyle.Render("Type a game name, or /help for commands."))
		return
	}

	wasAtBottom := r.viewport.AtBottom()

	blank := lipgloss.NewStyle().
		Background(styles.ColorBg).
		Width(r.width).
		Render("")

	var lines []string
	for i, e := range r.entries {
		// Group a command with its output; separate everything else.
		if i > 0 && e.Kind != EntryResult && e.Kind != EntryError {
			lines = append(lines, blank)
		}
		lines = append(lines, r.renderEntry(e)...)
	}

	r.viewport.SetContent(strings.Join(lines, "\n"))

	if wasAtBottom {
		r.viewport.GotoBottom()
	}
}

// renderEntry renders one entry, one styled line per text line.
func (r Results) renderEntry(e Entry) []string {
	style := EntryStyle(e.Kind).Width(r.width)

	var prefix string
	switch e.Kind {
	case EntryCommand:
		prefix = DimmedStyle.Render("["+e.CreatedAt.Format("15:04:05")+"] ") + "> "
	case EntryDetect:
		prefix = "◎ "
	case EntryError:
		prefix = "✖ "
	default:
		prefix = "  "
	}

	var lines []string
	for i, line := range strings.Split(e.Text, "\n") {
		if i > 0 {
			prefix = "  "
		}
		lines = append(lines, style.Render(prefix+line))
	}
	return lines
}

// Update handles viewport updates (scrolling, etc).
func (r Results) Update(msg tea.Msg) (Results, tea.Cmd) {
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

// View renders the results viewport.
func (r Results) View() string {
	return r.viewport.View()
}

// GotoBottom scrolls to the bottom.
func (r *Results) GotoBottom() {
	r.viewport.GotoBottom()
}
