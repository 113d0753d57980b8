package features

import (
	"flag"
	"io"

	"github.com/xonecas/sensi/internal/constants"
)

// Flags holds parsed command-line flags.
type Flags struct {
	ShowHelp    bool
	ShowVersion bool
	ConfigPath  string
	Debug       bool

	ListGames bool
	Game      string
	DPI       int

	From  string
	Sens  float64
	To    string
	ToDPI int

	Baseline float64
	History  bool
	Watch    bool
	TUI      bool
}

// OneShot reports whether the flags request a single action instead of an
// interactive session.
func (f *Flags) OneShot() bool {
	return f.ListGames || f.Game != "" || f.From != "" || f.To != "" || f.Baseline != 0 || f.History
}

// ParseFlags parses command-line arguments (without the program name).
// This is display-agnostic - it only parses flags without printing or exiting.
// The caller is responsible for handling ShowHelp and ShowVersion flags.
func ParseFlags(args []string) (*Flags, error) {
	var f Flags
	fs := flag.NewFlagSet(constants.AppName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&f.ShowHelp, "help", false, "Show help and exit")
	fs.BoolVar(&f.ShowHelp, "h", false, "Show help and exit (shorthand)")
	fs.BoolVar(&f.ShowVersion, "version", false, "Show version and exit")
	fs.BoolVar(&f.ShowVersion, "v", false, "Show version and exit (shorthand)")
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&f.ConfigPath, "c", "", "Path to config file (shorthand)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Debug, "d", false, "Enable debug logging (shorthand)")
	fs.BoolVar(&f.ListGames, "list-games", false, "List supported games and exit")
	fs.BoolVar(&f.ListGames, "l", false, "List supported games and exit (shorthand)")
	fs.StringVar(&f.Game, "game", "", "Suggest a sensitivity for this game from the baseline")
	fs.StringVar(&f.Game, "g", "", "Suggest a sensitivity (shorthand)")
	fs.IntVar(&f.DPI, "dpi", 0, "Mouse DPI (defaults to the baseline DPI)")
	fs.StringVar(&f.From, "from", "", "Source game for a conversion")
	fs.Float64Var(&f.Sens, "sens", 0, "Source sensitivity for a conversion")
	fs.StringVar(&f.To, "to", "", "Target game for a conversion")
	fs.IntVar(&f.ToDPI, "to-dpi", 0, "Target DPI for a conversion (defaults to --dpi)")
	fs.Float64Var(&f.Baseline, "baseline", 0, "Set the baseline cm/360 and exit")
	fs.Float64Var(&f.Baseline, "b", 0, "Set the baseline cm/360 (shorthand)")
	fs.BoolVar(&f.History, "history", false, "Show recent conversions and exit")
	fs.BoolVar(&f.History, "H", false, "Show recent conversions (shorthand)")
	fs.BoolVar(&f.Watch, "watch", false, "Watch for running games and print suggestions")
	fs.BoolVar(&f.Watch, "w", false, "Watch for running games (shorthand)")
	fs.BoolVar(&f.TUI, "tui", false, "Use terminal UI mode instead of CLI")
	fs.BoolVar(&f.TUI, "t", false, "Use terminal UI mode (shorthand)")

	// Disable default help behavior - caller will handle it
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &f, nil
}
