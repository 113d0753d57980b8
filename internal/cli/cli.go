package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/config"
	"github.com/xonecas/sensi/internal/constants"
	"github.com/xonecas/sensi/internal/detect"
	"github.com/xonecas/sensi/internal/features"
	"github.com/xonecas/sensi/internal/store"
	"github.com/xonecas/sensi/internal/styles"
)

// App holds the interactive CLI state.
type App struct {
	cmds     *features.Commands
	detector *detect.Service // nil when detection is off
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	mu       sync.Mutex // serializes output from the prompt loop and the watcher
}

// NewApp creates a CLI app reading from in and writing to out and errOut.
func NewApp(cmds *features.Commands, in io.Reader, out, errOut io.Writer) *App {
	return &App{cmds: cmds, in: in, out: out, errOut: errOut}
}

// printWelcome displays the welcome banner.
func (app *App) printWelcome() {
	app.println(styles.Brand.Render("╔══════════════════════════════════════╗"))
	app.println(styles.Brand.Render("║") + "    " + styles.BrandBold.Render("sensi") + " - sensitivity converter     " + styles.Brand.Render("║"))
	app.println(styles.Brand.Render("╚══════════════════════════════════════╝"))
	app.println("")
	app.println(styles.Muted.Render(fmt.Sprintf("Games: %d enabled", len(app.cmds.Registry.ListEnabled()))))
	if app.detector != nil {
		app.println(styles.Muted.Render("Game detection available (/watch start)"))
	}
	app.println(styles.Muted.Render("Type /help for commands, exit to quit"))
	app.println("")
}

// Start runs the interactive prompt loop on stdin and stdout.
// This is the main entry point for CLI mode after all initialization is done.
func Start(ctx context.Context, cmds *features.Commands, cfg *config.Config, watch bool) error {
	if cmds == nil {
		return fmt.Errorf("commands cannot be nil")
	}
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	app := NewApp(cmds, os.Stdin, os.Stdout, os.Stderr)
	app.detector = features.NewDetector(cfg, cmds.Registry, app.watchCallbacks())
	app.printWelcome()

	if watch {
		if err := app.startWatch(ctx); err != nil {
			return fmt.Errorf("failed to start watching: %w", err)
		}
	}
	defer app.stopWatch()

	return app.runLoop(ctx)
}

// runLoop runs the prompt loop until EOF, exit, or ctx is done.
func (app *App) runLoop(ctx context.Context) error {
	scanner := bufio.NewScanner(app.in)

	if err := app.onboard(scanner); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			break
		}

		app.print(styles.Brand.Render("> "))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" || input == "/quit" {
			app.println(styles.Muted.Render("Goodbye!"))
			break
		}

		if strings.HasPrefix(input, "/watch") {
			if err := app.handleWatchCommand(ctx, input); err != nil {
				app.printError(err)
			}
			continue
		}

		out, err := app.cmds.Execute(input)
		if err != nil {
			app.printError(err)
			continue
		}
		app.printBlock(styles.Value, out)
		app.println("")
	}

	return scanner.Err()
}

// onboard asks for a baseline when none exists yet. A blank answer skips.
func (app *App) onboard(scanner *bufio.Scanner) error {
	_, err := app.cmds.Baseline.Current()
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNoBaseline) {
		return err
	}

	app.println(styles.BrandBold.Render("Welcome! Let's set your baseline."))
	app.println(styles.Muted.Render("Enter your cm/360 and DPI (e.g. 34.6 800), or a game and sensitivity"))
	app.println(styles.Muted.Render("you already use (e.g. \"Counter-Strike 2\" 1.2 800). Press Enter to skip."))

	for {
		app.print(styles.Brand.Render("baseline> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			app.println(styles.Muted.Render("Skipped. Use /baseline set later."))
			return nil
		}

		cmd := "/baseline set " + answer
		if fields := strings.Fields(answer); len(fields) > 2 {
			cmd = "/baseline from " + answer
		}
		out, err := app.cmds.Execute(cmd)
		if err != nil {
			app.printError(err)
			continue
		}
		app.printBlock(styles.Success, out)
		app.println("")
		return nil
	}
}

// RunOneShot executes the actions requested by flags and prints the results.
// Actions run in a fixed order: baseline, list, suggestion, conversion, history.
func RunOneShot(cmds *features.Commands, flags *features.Flags, out io.Writer) error {
	emit := func(s string) {
		printBlock(out, styles.Value, s)
	}

	if flags.Baseline != 0 {
		s, err := cmds.SetBaseline(flags.Baseline, flags.DPI)
		if err != nil {
			return err
		}
		emit(s)
	}

	if flags.ListGames {
		emit(cmds.Games())
	}

	if flags.Game != "" {
		s, err := cmds.Suggest(flags.Game, flags.DPI)
		if err != nil {
			return err
		}
		emit(s)
	}

	if flags.From != "" || flags.To != "" {
		if flags.From == "" || flags.To == "" || flags.Sens == 0 {
			return fmt.Errorf("--from, --sens and --to are required together")
		}
		dpi := flags.DPI
		if dpi == 0 {
			dpi = cmds.DefaultDPI
			if b, err := cmds.Baseline.Current(); err == nil {
				dpi = b.DPI
			}
		}
		s, err := cmds.Convert(flags.From, flags.Sens, dpi, flags.To, flags.ToDPI)
		if err != nil {
			return err
		}
		emit(s)
	}

	if flags.History {
		s, err := cmds.History(constants.HistoryLimit)
		if err != nil {
			return err
		}
		emit(s)
	}

	log.Debug().Msg("One-shot commands finished")
	return nil
}

func (app *App) print(s string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	_, _ = fmt.Fprint(app.out, s)
}

func (app *App) println(s string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	_, _ = fmt.Fprintln(app.out, s)
}

func (app *App) printBlock(style lipgloss.Style, s string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	printBlock(app.out, style, s)
}

func (app *App) printError(err error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	_, _ = fmt.Fprintln(app.errOut, styles.Error.Render("Error: "+err.Error()))
}

// printBlock renders each line separately so lipgloss does not pad them
// to a common width.
func printBlock(w io.Writer, style lipgloss.Style, s string) {
	if s == "" {
		return
	}
	for _, line := range strings.Split(s, "\n") {
		_, _ = fmt.Fprintln(w, style.Render(line))
	}
}
