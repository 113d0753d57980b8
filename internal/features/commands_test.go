package features

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xonecas/sensi/internal/baseline"
	"github.com/xonecas/sensi/internal/conversion"
	"github.com/xonecas/sensi/internal/registry"
	"github.com/xonecas/sensi/internal/store"
)

func newTestCommands(t *testing.T) *Commands {
	t.Helper()
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewCommands(registry.Default(), baseline.NewManager(db), 3, 800)
}

func run(t *testing.T, c *Commands, line string) string {
	t.Helper()
	out, err := c.Execute(line)
	if err != nil {
		t.Fatalf("Execute(%q): %v", line, err)
	}
	return out
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"/games", []string{"/games"}, false},
		{"  /game   valorant  1600 ", []string{"/game", "valorant", "1600"}, false},
		{`/convert "Counter-Strike 2" 2 800 "Apex Legends"`, []string{"/convert", "Counter-Strike 2", "2", "800", "Apex Legends"}, false},
		{`/game ""`, []string{"/game", ""}, false},
		{`/game "apex`, nil, true},
		{`/game 'Apex Legends' 800`, []string{"/game", "Apex Legends", "800"}, false},
		{`/game valorant; /clear-history`, nil, true},
		{`/game a|b`, nil, true},
		{"   ", nil, true},
	}
	for _, tt := range tests {
		got, err := SplitArgs(tt.line)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitArgs(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestGamesCommand(t *testing.T) {
	c := newTestCommands(t)

	out := run(t, c, "/games")
	if strings.Contains(out, "Paladins") {
		t.Error("disabled game listed")
	}
	if !strings.Contains(out, "Minecraft (minecraft)") {
		t.Errorf("special model not marked:\n%s", out)
	}

	var usage *UsageError
	if _, err := c.Execute("/games all"); !errors.As(err, &usage) {
		t.Errorf("error = %v, want UsageError", err)
	}
}

func TestDisabledGamesUnknown(t *testing.T) {
	c := newTestCommands(t)
	run(t, c, "/baseline set 30 800")

	// Paladins is in the catalog but disabled.
	if _, ok := c.Registry.FindByName("Paladins"); !ok {
		t.Fatal("Paladins missing from the catalog")
	}

	lines := []string{
		"/game Paladins",
		"paladins",
		"/convert Paladins 1 800 Valorant",
		"/convert Valorant 0.5 800 Paladins",
		"/baseline from Paladins 1 800",
	}
	for _, line := range lines {
		if _, err := c.Execute(line); !errors.Is(err, ErrUnknownGame) {
			t.Errorf("Execute(%q) error = %v, want ErrUnknownGame", line, err)
		}
	}

	if _, err := c.Suggest("Paladins", 0); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Suggest error = %v, want ErrUnknownGame", err)
	}
	if _, err := c.Convert("Valorant", 0.5, 800, "Paladins", 0); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Convert error = %v, want ErrUnknownGame", err)
	}

	history, err := c.Baseline.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("history = %d entries, want 0", len(history))
	}
}

func TestGameNeedsBaseline(t *testing.T) {
	c := newTestCommands(t)
	if _, err := c.Execute("/game valorant"); !errors.Is(err, store.ErrNoBaseline) {
		t.Errorf("error = %v, want ErrNoBaseline", err)
	}
	out := run(t, c, "/baseline")
	if !strings.Contains(out, "No baseline yet") {
		t.Errorf("/baseline without baseline = %q", out)
	}
}

func TestBaselineAndSuggest(t *testing.T) {
	c := newTestCommands(t)

	out := run(t, c, "/baseline set 25.4 800")
	if !strings.Contains(out, "25.4 cm/360 @ 800 dpi") {
		t.Errorf("/baseline set = %q", out)
	}

	// 25.4 cm = 10 in; CS2 sens = 360/(0.022*800*10).
	out = run(t, c, "/game counter-strike 2")
	want := conversion.FromCm360(mustGame(t, "Counter-Strike 2"), 25.4, 800)
	if !strings.Contains(out, "Counter-Strike 2: "+c.num(want)+" @ 800 dpi") {
		t.Errorf("/game = %q, want sens %s", out, c.num(want))
	}

	// Bare names are suggestions, quoted or not.
	if got := run(t, c, `"Counter-Strike 2"`); got != out {
		t.Errorf("bare name = %q, want %q", got, out)
	}

	out = run(t, c, "/game valorant 1600")
	if !strings.Contains(out, "@ 1600 dpi") {
		t.Errorf("/game with dpi = %q", out)
	}

	// Set without dpi keeps the current dpi.
	out = run(t, c, "/baseline set 30")
	if !strings.Contains(out, "30 cm/360 @ 800 dpi") {
		t.Errorf("/baseline set without dpi = %q", out)
	}
}

func TestBaselineFrom(t *testing.T) {
	c := newTestCommands(t)
	out := run(t, c, `/baseline from "Counter-Strike 2" 2 800`)
	if !strings.Contains(out, "25.977 cm/360 @ 800 dpi") {
		t.Errorf("/baseline from = %q", out)
	}
	if !strings.Contains(out, "Favorite: Counter-Strike 2 @ 2") {
		t.Errorf("favorite missing: %q", out)
	}

	var usage *UsageError
	if _, err := c.Execute("/baseline from valorant 0.3"); !errors.As(err, &usage) {
		t.Errorf("error = %v, want UsageError", err)
	}
}

func TestConvertCommand(t *testing.T) {
	c := newTestCommands(t)

	// Unquoted names resolve by longest match, even with digits in the name.
	out := run(t, c, "/convert Counter-Strike 2 2 800 Valorant")
	if !strings.Contains(out, "Counter-Strike 2 2 @ 800 dpi -> Valorant 0.629 @ 800 dpi") {
		t.Errorf("/convert = %q", out)
	}

	out = run(t, c, `/convert "counter-strike 2" 2 800 "apex legends" 1600`)
	if !strings.Contains(out, "Apex Legends 1 @ 1600 dpi") {
		t.Errorf("/convert with target dpi = %q", out)
	}

	tests := []struct {
		line string
		want error
	}{
		{"/convert nope 1 800 valorant", ErrUnknownGame},
		{"/convert valorant 1 800 nope", ErrUnknownGame},
		{"/convert valorant abc 800 apex legends", conversion.ErrInvalidSensitivity},
		{"/convert valorant -1 800 apex legends", conversion.ErrInvalidSensitivity},
		{"/convert valorant 1 0 apex legends", conversion.ErrInvalidDPI},
	}
	for _, tt := range tests {
		if _, err := c.Execute(tt.line); !errors.Is(err, tt.want) {
			t.Errorf("Execute(%q) error = %v, want %v", tt.line, err, tt.want)
		}
	}

	var usage *UsageError
	if _, err := c.Execute("/convert valorant 1"); !errors.As(err, &usage) {
		t.Errorf("short /convert error = %v, want UsageError", err)
	}
	if _, err := c.Execute("/convert"); !errors.As(err, &usage) {
		t.Errorf("empty /convert error = %v, want UsageError", err)
	}
}

func TestHistoryCommands(t *testing.T) {
	c := newTestCommands(t)
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if out := run(t, c, "/history"); out != "No conversions yet." {
		t.Errorf("empty /history = %q", out)
	}

	run(t, c, "/convert valorant 0.5 800 apex legends")
	run(t, c, "/convert valorant 0.5 800 overwatch 2")

	out := run(t, c, "/history 1")
	lines := strings.Split(out, "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "Overwatch 2") {
		t.Errorf("/history 1 = %q", out)
	}
	if !strings.HasPrefix(lines[0], "2 hours ago") {
		t.Errorf("age missing: %q", lines[0])
	}

	if _, err := c.Execute("/history zero"); err == nil {
		t.Error("/history zero should fail")
	}

	if out := run(t, c, "/clear-history"); out != "Cleared 2 conversions." {
		t.Errorf("/clear-history = %q", out)
	}
}

func TestUnknownAndHelp(t *testing.T) {
	c := newTestCommands(t)
	if _, err := c.Execute("/teleport"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("error = %v, want ErrUnknownCommand", err)
	}
	if out := run(t, c, "/HELP"); out != HelpText {
		t.Error("/help output mismatch")
	}
	if out := run(t, c, "   "); out != "" {
		t.Errorf("blank input = %q", out)
	}
}

func TestTypedMethods(t *testing.T) {
	c := newTestCommands(t)
	if _, err := c.SetBaseline(30, 0); err != nil {
		t.Fatalf("SetBaseline: %v", err)
	}
	if _, err := c.Suggest("nope", 0); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Suggest unknown = %v", err)
	}
	if out, err := c.Suggest(" valorant ", 0); err != nil || !strings.HasPrefix(out, "Valorant:") {
		t.Errorf("Suggest = %q, %v", out, err)
	}
	if out, err := c.Convert("Valorant", 0.5, 800, "Apex Legends", 0); err != nil || !strings.Contains(out, "Apex Legends") {
		t.Errorf("Convert = %q, %v", out, err)
	}
}

func TestNum(t *testing.T) {
	c := &Commands{Decimals: 3}
	for v, want := range map[float64]string{1: "1", 0.5: "0.5", 0.62857: "0.629", 1600: "1600", 25.9772: "25.977"} {
		if got := c.num(v); got != want {
			t.Errorf("num(%v) = %q, want %q", v, got, want)
		}
	}
	c.Decimals = 0
	if got := c.num(2.6); got != "3" {
		t.Errorf("num with 0 decimals = %q", got)
	}
}

func mustGame(t *testing.T, name string) registry.GameProfile {
	t.Helper()
	g, ok := registry.Default().FindByName(name)
	if !ok {
		t.Fatalf("game %q not found", name)
	}
	return g
}
