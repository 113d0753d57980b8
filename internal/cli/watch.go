package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/detect"
	"github.com/xonecas/sensi/internal/registry"
	"github.com/xonecas/sensi/internal/store"
	"github.com/xonecas/sensi/internal/styles"
)

// errNoDetector is returned when /watch is used without configured processes.
var errNoDetector = errors.New("game detection is off: map process names under [detect.processes] in config.toml")

// watchCallbacks prints detection events between prompts.
func (app *App) watchCallbacks() detect.Callbacks {
	return detect.Callbacks{
		OnDetected: func(game registry.GameProfile) {
			app.println("")
			app.println(styles.Secondary.Render("Detected: " + game.Name))
			out, err := app.cmds.Suggest(game.Name, 0)
			switch {
			case errors.Is(err, store.ErrNoBaseline):
				app.println(styles.Muted.Render("Set a baseline to get a suggestion (/baseline set <cm/360> <dpi>)"))
			case err != nil:
				app.printError(err)
			default:
				app.printBlock(styles.Value, out)
			}
		},
		OnLost: func(game registry.GameProfile) {
			app.println(styles.Muted.Render(game.Name + " closed"))
		},
		OnError: func(err error) {
			app.printError(fmt.Errorf("game scan: %w", err))
		},
		OnStopped: func() {
			app.println(styles.Muted.Render("Watching stopped"))
		},
	}
}

// startWatch starts the detector and announces it.
func (app *App) startWatch(ctx context.Context) error {
	if app.detector == nil {
		return errNoDetector
	}
	if err := app.detector.Start(ctx); err != nil {
		return err
	}

	status := app.detector.Status()
	app.println(styles.Secondary.Render("Watching for running games"))
	app.println(styles.Muted.Render(fmt.Sprintf("Interval: %s", status.Interval)))
	app.println(styles.Muted.Render("Type '/watch stop' to stop"))
	app.println("")
	return nil
}

// stopWatch stops the detector if it is running.
func (app *App) stopWatch() {
	if app.detector == nil || !app.detector.Status().Running {
		return
	}
	if err := app.detector.Stop(); err != nil {
		log.Debug().Err(err).Msg("Stop watching")
	}
}

// handleWatchCommand handles /watch, /watch start and /watch stop.
func (app *App) handleWatchCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if parts[0] != "/watch" {
		return fmt.Errorf("unknown command: %s (try /help)", parts[0])
	}

	if len(parts) == 1 {
		if app.detector == nil {
			app.println(styles.Muted.Render("Game detection is off"))
			return nil
		}
		status := app.detector.Status()
		if !status.Running {
			app.println(styles.Muted.Render("Not watching"))
			app.println(styles.Muted.Render("Usage: /watch start"))
			return nil
		}
		if len(status.Active) == 0 {
			app.println(styles.Secondary.Render("Watching, no game running"))
			return nil
		}
		names := make([]string, len(status.Active))
		for i, g := range status.Active {
			names[i] = g.Name
		}
		app.println(styles.Secondary.Render("Watching, running: " + strings.Join(names, ", ")))
		return nil
	}

	switch parts[1] {
	case "start":
		return app.startWatch(ctx)
	case "stop":
		if app.detector == nil || !app.detector.Status().Running {
			app.println(styles.Muted.Render("Not watching"))
			return nil
		}
		return app.detector.Stop()
	default:
		return fmt.Errorf("usage: /watch [start|stop]")
	}
}
