package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/config"
	"github.com/xonecas/sensi/internal/detect"
	"github.com/xonecas/sensi/internal/features"
	"github.com/xonecas/sensi/internal/registry"
	"github.com/xonecas/sensi/internal/store"
)

// errNoDetector is returned when /watch is used without configured processes.
var errNoDetector = errors.New("game detection is off: map process names under [detect.processes] in config.toml")

// Runner manages the TUI application lifecycle.
type Runner struct {
	ctx      context.Context
	program  *tea.Program
	cmds     *features.Commands
	detector *detect.Service // nil when detection is off
	watch    bool
}

// NewRunner creates a new TUI runner. With watch set, detection starts
// as soon as the program runs.
func NewRunner(ctx context.Context, cmds *features.Commands, cfg *config.Config, watch bool) (*Runner, error) {
	if cmds == nil {
		return nil, fmt.Errorf("commands cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	r := &Runner{ctx: ctx, cmds: cmds, watch: watch}
	r.detector = features.NewDetector(cfg, cmds.Registry, r.detectCallbacks())

	model := NewModel()
	model.SetOnCommand(r.handleCommand)
	model.SetOnStopWatch(r.stopWatch)
	model.SetGames(gameNames(cmds.Registry.ListEnabled()))
	model.SetBaseline(r.baselineText())
	model.AddEntry(Entry{
		Kind: EntryInfo,
		Text: fmt.Sprintf("sensi: %d games. Type a game name, or /help for commands.", len(cmds.Registry.ListEnabled())),
	})
	if _, err := cmds.Baseline.Current(); errors.Is(err, store.ErrNoBaseline) {
		model.AddEntry(Entry{
			Kind: EntryInfo,
			Text: "No baseline yet. Try /baseline set 30 800 or /baseline from <game> <sens> <dpi>.",
		})
	}

	r.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	return r, nil
}

// Run starts the TUI application and blocks until it exits.
func (r *Runner) Run() error {
	if r.watch {
		if err := r.startWatch(); err != nil {
			log.Warn().Err(err).Msg("Failed to start watching")
			go r.program.Send(ErrorMsg{Error: err.Error()})
		}
	}
	defer func() {
		if r.detector != nil && r.detector.Status().Running {
			if err := r.detector.Stop(); err != nil {
				log.Debug().Err(err).Msg("Stop watching")
			}
		}
	}()

	_, err := r.program.Run()
	return err
}

// Start creates a TUI runner and starts the application.
// This is the main entry point for TUI mode.
func Start(ctx context.Context, cmds *features.Commands, cfg *config.Config, watch bool) error {
	runner, err := NewRunner(ctx, cmds, cfg, watch)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	return runner.Run()
}

// handleCommand runs one input line. It is called from a tea.Cmd, so it
// may block and send messages to the program.
func (r *Runner) handleCommand(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) > 0 && strings.EqualFold(fields[0], "/watch") {
		return r.handleWatchCommand(fields)
	}

	out, err := r.cmds.Execute(line)
	if err != nil {
		return "", err
	}
	if len(fields) > 0 && strings.EqualFold(fields[0], "/baseline") {
		r.program.Send(BaselineMsg{Text: r.baselineText()})
	}
	return out, nil
}

// handleWatchCommand handles /watch, /watch start and /watch stop.
func (r *Runner) handleWatchCommand(fields []string) (string, error) {
	if len(fields) == 1 {
		if r.detector == nil {
			return "Game detection is off", nil
		}
		status := r.detector.Status()
		if !status.Running {
			return "Not watching. Usage: /watch start", nil
		}
		if len(status.Active) == 0 {
			return "Watching, no game running", nil
		}
		return "Watching, running: " + strings.Join(gameNames(status.Active), ", "), nil
	}

	switch strings.ToLower(fields[1]) {
	case "start":
		return "", r.startWatch()
	case "stop":
		if r.detector == nil || !r.detector.Status().Running {
			return "Not watching", nil
		}
		return "", r.detector.Stop()
	default:
		return "", &features.UsageError{Usage: "/watch [start|stop]"}
	}
}

func (r *Runner) startWatch() error {
	if r.detector == nil {
		return errNoDetector
	}
	if err := r.detector.Start(r.ctx); err != nil {
		return err
	}
	// Send from a goroutine: Run may not have started the program yet.
	go r.program.Send(WatchStartedMsg{Interval: r.detector.Status().Interval})
	return nil
}

func (r *Runner) stopWatch() error {
	if r.detector == nil {
		return errNoDetector
	}
	return r.detector.Stop()
}

// detectCallbacks forwards detection events to the program.
func (r *Runner) detectCallbacks() detect.Callbacks {
	return detect.Callbacks{
		OnDetected: func(game registry.GameProfile) {
			msg := GameDetectedMsg{Game: game.Name}
			out, err := r.cmds.Suggest(game.Name, 0)
			switch {
			case errors.Is(err, store.ErrNoBaseline):
			case err != nil:
				log.Warn().Err(err).Str("game", game.Name).Msg("Failed to suggest for detected game")
			default:
				msg.Suggestion = out
			}
			r.program.Send(msg)
		},
		OnLost: func(game registry.GameProfile) {
			r.program.Send(GameLostMsg{Game: game.Name})
		},
		OnError: func(err error) {
			r.program.Send(ErrorMsg{Error: "game scan: " + err.Error()})
		},
		OnStopped: func() {
			r.program.Send(WatchStoppedMsg{})
		},
	}
}

// baselineText summarizes the baseline for the status bar, or "" when unset.
func (r *Runner) baselineText() string {
	b, err := r.cmds.Baseline.Current()
	if err != nil {
		if !errors.Is(err, store.ErrNoBaseline) {
			log.Warn().Err(err).Msg("Failed to load baseline")
		}
		return ""
	}
	return strings.ReplaceAll(r.cmds.FormatBaseline(b), "\n", " | ")
}

func gameNames(games []registry.GameProfile) []string {
	names := make([]string, len(games))
	for i, g := range games {
		names[i] = g.Name
	}
	return names
}
