package features

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/baseline"
	"github.com/xonecas/sensi/internal/constants"
	"github.com/xonecas/sensi/internal/conversion"
	"github.com/xonecas/sensi/internal/registry"
	"github.com/xonecas/sensi/internal/store"
)

var (
	// ErrUnknownCommand is returned for a slash command that does not exist.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownGame is returned when a name matches no catalog entry.
	ErrUnknownGame = errors.New("unknown game")
)

// UsageError reports a command invoked with the wrong arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

// Commands executes text commands against the registry and baseline.
// It is shared by the CLI REPL and the TUI.
type Commands struct {
	Registry *registry.Registry
	Baseline *baseline.Manager
	Decimals int
	// DefaultDPI is used for /baseline set when no DPI is given.
	DefaultDPI int

	now func() time.Time
}

// NewCommands creates a command executor.
func NewCommands(reg *registry.Registry, mgr *baseline.Manager, decimals, defaultDPI int) *Commands {
	return &Commands{
		Registry:   reg,
		Baseline:   mgr,
		Decimals:   decimals,
		DefaultDPI: defaultDPI,
		now:        time.Now,
	}
}

// Execute runs one line of input and returns the text to display.
// Input without a leading slash is treated as a game name to suggest for.
func (c *Commands) Execute(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, "/") {
		line = "/game " + line
	}

	args, err := SplitArgs(line)
	if err != nil {
		return "", err
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	log.Debug().Str("command", cmd).Strs("args", args).Msg("Executing command")

	switch cmd {
	case "/games":
		return c.games(args)
	case "/game":
		return c.game(args)
	case "/convert":
		return c.convert(args)
	case "/baseline":
		return c.baseline(args)
	case "/history":
		return c.history(args)
	case "/clear-history":
		n, err := c.Baseline.ClearHistory()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Cleared %d conversions.", n), nil
	case "/help":
		return HelpText, nil
	default:
		return "", fmt.Errorf("%w: %s (try /help)", ErrUnknownCommand, cmd)
	}
}

// HelpText lists the available commands.
const HelpText = `Commands:
  /games                                    List supported games
  /game <name> [dpi]                        Suggest a sensitivity from your baseline
  /convert <from> <sens> <dpi> <to> [dpi]   Convert between two games
  /baseline                                 Show your baseline
  /baseline set <cm/360> [dpi]              Set your baseline directly
  /baseline from <game> <sens> <dpi>        Set your baseline from a game
  /history [n]                              Show recent conversions
  /clear-history                            Delete conversion history
  /watch [start|stop]                       Suggest automatically when a game starts
  /help                                     Show this help

Names are case-insensitive. Multi-word names may be quoted: "Apex Legends".
Typing a game name alone is the same as /game.`

func (c *Commands) games(args []string) (string, error) {
	if len(args) != 0 {
		return "", &UsageError{"/games"}
	}
	return c.Games(), nil
}

// Games lists the enabled games.
func (c *Commands) Games() string {
	games := c.Registry.ListEnabled()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d games:\n", len(games))
	for _, g := range games {
		fmt.Fprintf(&sb, "  %s", g.Name)
		if g.IsSpecial() {
			fmt.Fprintf(&sb, " (%s)", g.Kind())
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Commands) game(args []string) (string, error) {
	const usage = "/game <name> [dpi]"
	g, rest, err := c.lookup(args)
	if err != nil {
		return "", withUsage(err, usage)
	}

	dpi := 0
	switch len(rest) {
	case 0:
	case 1:
		if dpi, err = parseDPI(rest[0]); err != nil {
			return "", err
		}
	default:
		return "", &UsageError{usage}
	}

	return c.suggest(g, dpi)
}

// Suggest formats the baseline suggestion for the named game.
// A dpi of 0 uses the baseline DPI.
func (c *Commands) Suggest(name string, dpi int) (string, error) {
	g, err := c.find(name)
	if err != nil {
		return "", err
	}
	return c.suggest(g, dpi)
}

func (c *Commands) suggest(g registry.GameProfile, dpi int) (string, error) {
	conv, err := c.Baseline.Suggest(g, dpi)
	if errors.Is(err, store.ErrNoBaseline) {
		return "", fmt.Errorf("%w: run /baseline set <cm/360> <dpi> first", err)
	}
	if err != nil {
		return "", err
	}
	return c.FormatSuggestion(conv), nil
}

func (c *Commands) convert(args []string) (string, error) {
	const usage = "/convert <from> <sens> <dpi> <to> [dpi]"
	from, rest, err := c.lookup(args)
	if err != nil {
		return "", withUsage(err, usage)
	}
	if len(rest) < 3 {
		return "", &UsageError{usage}
	}
	sens, err := parseSens(rest[0])
	if err != nil {
		return "", err
	}
	dpi, err := parseDPI(rest[1])
	if err != nil {
		return "", err
	}

	to, rest, err := c.lookup(rest[2:])
	if err != nil {
		return "", withUsage(err, usage)
	}
	targetDPI := 0
	switch len(rest) {
	case 0:
	case 1:
		if targetDPI, err = parseDPI(rest[0]); err != nil {
			return "", err
		}
	default:
		return "", &UsageError{usage}
	}

	return c.convertProfiles(from, sens, dpi, to, targetDPI)
}

// Convert formats a conversion between two named games.
// A targetDPI of 0 keeps the source DPI.
func (c *Commands) Convert(from string, sens float64, dpi int, to string, targetDPI int) (string, error) {
	src, err := c.find(from)
	if err != nil {
		return "", err
	}
	dst, err := c.find(to)
	if err != nil {
		return "", err
	}
	return c.convertProfiles(src, sens, dpi, dst, targetDPI)
}

func (c *Commands) convertProfiles(from registry.GameProfile, sens float64, dpi int,
	to registry.GameProfile, targetDPI int) (string, error) {
	conv, err := c.Baseline.Convert(from, sens, float64(dpi), to, float64(targetDPI))
	if err != nil {
		return "", err
	}
	return c.FormatConversion(conv), nil
}

func (c *Commands) baseline(args []string) (string, error) {
	if len(args) == 0 {
		b, err := c.Baseline.Current()
		if errors.Is(err, store.ErrNoBaseline) {
			return "No baseline yet. Set one with /baseline set <cm/360> <dpi> or /baseline from <game> <sens> <dpi>.", nil
		}
		if err != nil {
			return "", err
		}
		return c.FormatBaseline(b), nil
	}

	switch strings.ToLower(args[0]) {
	case "set":
		const usage = "/baseline set <cm/360> [dpi]"
		if len(args) < 2 || len(args) > 3 {
			return "", &UsageError{usage}
		}
		cm, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return "", fmt.Errorf("invalid cm/360 %q", args[1])
		}
		dpi := 0
		if len(args) == 3 {
			if dpi, err = parseDPI(args[2]); err != nil {
				return "", err
			}
		}
		return c.SetBaseline(cm, dpi)

	case "from":
		const usage = "/baseline from <game> <sens> <dpi>"
		g, rest, err := c.lookup(args[1:])
		if err != nil {
			return "", withUsage(err, usage)
		}
		if len(rest) != 2 {
			return "", &UsageError{usage}
		}
		sens, err := parseSens(rest[0])
		if err != nil {
			return "", err
		}
		dpi, err := parseDPI(rest[1])
		if err != nil {
			return "", err
		}
		b, err := c.Baseline.SetFromGame(g, sens, dpi)
		if err != nil {
			return "", err
		}
		return "Baseline saved.\n" + c.FormatBaseline(b), nil

	default:
		return "", &UsageError{"/baseline [set <cm/360> [dpi] | from <game> <sens> <dpi>]"}
	}
}

// SetBaseline stores cm/360 as the baseline. A dpi of 0 keeps the current
// baseline DPI, or DefaultDPI before onboarding.
func (c *Commands) SetBaseline(cm float64, dpi int) (string, error) {
	if dpi == 0 {
		dpi = c.DefaultDPI
		if b, err := c.Baseline.Current(); err == nil {
			dpi = b.DPI
		}
	}
	b, err := c.Baseline.Onboard(cm, dpi, "", 0)
	if err != nil {
		return "", err
	}
	return "Baseline saved.\n" + c.FormatBaseline(b), nil
}

func (c *Commands) history(args []string) (string, error) {
	limit := constants.HistoryLimit
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("invalid count %q", args[0])
		}
		limit = n
	} else if len(args) > 1 {
		return "", &UsageError{"/history [n]"}
	}
	return c.History(limit)
}

// History formats the most recent conversions.
func (c *Commands) History(limit int) (string, error) {
	history, err := c.Baseline.History(limit)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "No conversions yet.", nil
	}

	var sb strings.Builder
	now := c.now()
	for _, h := range history {
		fmt.Fprintf(&sb, "%-14s %s\n", baseline.FormatAge(now.Sub(h.CreatedAt)), c.summary(&h))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// FormatSuggestion renders a baseline suggestion.
func (c *Commands) FormatSuggestion(conv *store.Conversion) string {
	return fmt.Sprintf("%s: %s @ %s dpi (%s cm/360, eDPI %s)",
		conv.TargetGame,
		c.num(conv.TargetSensitivity),
		c.num(conv.TargetDPI),
		c.num(conv.Cm360),
		c.num(conversion.EDPI(conv.TargetSensitivity, conv.TargetDPI)))
}

// FormatConversion renders a game-to-game conversion.
func (c *Commands) FormatConversion(conv *store.Conversion) string {
	return fmt.Sprintf("%s\n%s cm/360, eDPI %s -> %s",
		c.summary(conv),
		c.num(conv.Cm360),
		c.num(conversion.EDPI(conv.SourceSensitivity, conv.SourceDPI)),
		c.num(conversion.EDPI(conv.TargetSensitivity, conv.TargetDPI)))
}

// FormatBaseline renders the baseline.
func (c *Commands) FormatBaseline(b *store.Baseline) string {
	s := fmt.Sprintf("Baseline: %s cm/360 @ %d dpi", c.num(b.MouseTravel), b.DPI)
	if b.FavoriteGame != nil {
		s += "\nFavorite: " + *b.FavoriteGame
		if b.FavoriteSensitivity != nil {
			s += " @ " + c.num(*b.FavoriteSensitivity)
		}
	}
	return s
}

func (c *Commands) summary(conv *store.Conversion) string {
	if conv.SourceGame == "" {
		return fmt.Sprintf("baseline %s cm -> %s %s @ %s dpi",
			c.num(conv.Cm360), conv.TargetGame, c.num(conv.TargetSensitivity), c.num(conv.TargetDPI))
	}
	return fmt.Sprintf("%s %s @ %s dpi -> %s %s @ %s dpi",
		conv.SourceGame, c.num(conv.SourceSensitivity), c.num(conv.SourceDPI),
		conv.TargetGame, c.num(conv.TargetSensitivity), c.num(conv.TargetDPI))
}

// num formats v with the configured precision, trimming trailing zeros.
func (c *Commands) num(v float64) string {
	s := strconv.FormatFloat(v, 'f', c.Decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// lookup resolves the longest leading run of args that names an enabled
// game and returns the remaining args.
func (c *Commands) lookup(args []string) (registry.GameProfile, []string, error) {
	if len(args) == 0 {
		return registry.GameProfile{}, nil, errMissingGame
	}
	for n := len(args); n > 0; n-- {
		if g, ok := c.Registry.FindByName(strings.Join(args[:n], " ")); ok && g.EnabledForApp {
			return g, args[n:], nil
		}
	}
	return registry.GameProfile{}, nil, fmt.Errorf("%w: %q", ErrUnknownGame, args[0])
}

var errMissingGame = errors.New("missing game name")

// find resolves an enabled game by name. Disabled games are unknown to
// every command.
func (c *Commands) find(name string) (registry.GameProfile, error) {
	g, ok := c.Registry.FindByName(strings.TrimSpace(name))
	if !ok || !g.EnabledForApp {
		return registry.GameProfile{}, fmt.Errorf("%w: %q", ErrUnknownGame, name)
	}
	return g, nil
}

func withUsage(err error, usage string) error {
	if errors.Is(err, errMissingGame) {
		return &UsageError{usage}
	}
	return err
}

func parseSens(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", conversion.ErrInvalidSensitivity, s)
	}
	return v, nil
}

func parseDPI(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", conversion.ErrInvalidDPI, s)
	}
	return v, nil
}

// SplitArgs splits a command line into words with shell quoting rules, so
// multi-word names can be double- or single-quoted. Shell operators are not
// interpreted and are rejected.
func SplitArgs(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	// Position marks where parsing stopped at an operator such as ; or |.
	if p.Position >= 0 {
		return nil, fmt.Errorf("unsupported shell operator in %q", line)
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}
