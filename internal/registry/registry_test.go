package registry

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestBuiltinCatalogIsValid(t *testing.T) {
	r := Default()
	if r.Len() != len(builtin) {
		t.Fatalf("Len() = %d, want %d", r.Len(), len(builtin))
	}
	for _, p := range r.All() {
		if !(p.ScalingFactor > 0) {
			t.Errorf("%s: scaling factor %v must be positive", p.Name, p.ScalingFactor)
		}
		if p.Model != nil {
			if err := p.Model.Validate(); err != nil {
				t.Errorf("%s: %v", p.Name, err)
			}
		}
	}

	kinds := map[Kind]bool{}
	for _, p := range r.All() {
		kinds[p.Kind()] = true
	}
	for _, k := range []Kind{KindStandard, KindBattlefield, KindGTA5, KindMinecraft, KindPUBG, KindSTALKER, KindFirstDescendant} {
		if !kinds[k] {
			t.Errorf("catalog has no %s profile", k)
		}
	}
}

func TestFindByName(t *testing.T) {
	r := Default()

	p, ok := r.FindByName("Valorant")
	if !ok {
		t.Fatal("Valorant not found")
	}
	if p.ScalingFactor != 0.07 {
		t.Errorf("ScalingFactor = %v, want 0.07", p.ScalingFactor)
	}

	if _, ok := r.FindByName("  counter-strike 2 "); !ok {
		t.Error("lookup should ignore case and surrounding space")
	}
	if _, ok := r.FindByName("Half-Life 3"); ok {
		t.Error("unknown game should not be found")
	}
	if _, ok := r.FindByName(""); ok {
		t.Error("empty name should not be found")
	}
}

func TestFindByExternalID(t *testing.T) {
	r := Default()

	p, ok := r.FindByExternalID("21640")
	if !ok || p.Name != "Valorant" {
		t.Errorf("FindByExternalID(21640) = %q, %v", p.Name, ok)
	}

	for _, id := range []string{"", "0", "999999"} {
		if p, ok := r.FindByExternalID(id); ok {
			t.Errorf("FindByExternalID(%q) matched %q", id, p.Name)
		}
	}

	// Paladins is disabled
	if _, ok := r.FindByExternalID("21600"); ok {
		t.Error("disabled profile must not match detection")
	}
}

func TestListEnabled(t *testing.T) {
	r := Default()
	list := r.ListEnabled()

	names := make([]string, len(list))
	for i, p := range list {
		if !p.EnabledForApp {
			t.Errorf("%s is disabled but listed", p.Name)
		}
		names[i] = strings.ToLower(p.Name)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("ListEnabled not alphabetical: %v", names)
	}
	if len(list) >= r.Len() {
		t.Errorf("ListEnabled returned %d of %d; disabled profiles should be excluded", len(list), r.Len())
	}

	again := r.ListEnabled()
	for i := range list {
		if list[i].Name != again[i].Name {
			t.Fatalf("order not stable at %d: %q vs %q", i, list[i].Name, again[i].Name)
		}
	}
}

func TestNewRejectsBadProfiles(t *testing.T) {
	_, err := New(
		GameProfile{Name: "A", ScalingFactor: 1},
		GameProfile{Name: "a", ScalingFactor: 2},
	)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate names: err = %v, want ErrDuplicateName", err)
	}

	for _, sf := range []float64{0, -0.5} {
		_, err := New(GameProfile{Name: "Bad", ScalingFactor: sf})
		if !errors.Is(err, ErrInvalidScalingFactor) {
			t.Errorf("scaling factor %v: err = %v, want ErrInvalidScalingFactor", sf, err)
		}
	}

	if _, err := New(GameProfile{Name: " ", ScalingFactor: 1}); err == nil {
		t.Error("blank name should be rejected")
	}
}

func TestRegistryIsolatedFromCaller(t *testing.T) {
	in := []GameProfile{{Name: "Synthetic", ScalingFactor: 0.5, EnabledForApp: true}}
	r, err := New(in...)
	if err != nil {
		t.Fatal(err)
	}
	in[0].ScalingFactor = 9

	all := r.All()
	all[0].ScalingFactor = 7

	p, _ := r.FindByName("Synthetic")
	if p.ScalingFactor != 0.5 {
		t.Errorf("registry mutated through caller slices: %v", p.ScalingFactor)
	}
}

func TestInferPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		params ConversionParams
		want   Kind
		ok     bool
	}{
		{"battlefield", ConversionParams{LinearCoefficient: f(1), Offset: f(0.1), Multiplier: f(2)}, KindBattlefield, true},
		{"gta5", ConversionParams{Constant: f(40000), Offset: f(0.3)}, KindGTA5, true},
		{"minecraft", ConversionParams{LinearCoefficient: f(1.2), Offset: f(0.6), Multiplier: f(1), Constant: f(0.2), ScaleFactor: f(0.15)}, KindMinecraft, true},
		{"pubg", ConversionParams{BaseValue: f(114.8), ScaleFactor: f(21.769)}, KindPUBG, true},
		// earlier gta5 predicate shadows these key sets
		{"stalker keys", ConversionParams{LinearCoefficient: f(1), Offset: f(0.1), Constant: f(20)}, KindGTA5, true},
		{"first descendant keys", ConversionParams{Offset: f(-1), Constant: f(100)}, KindGTA5, true},
		{"nothing", ConversionParams{Multiplier: f(1)}, "", false},
		{"empty", ConversionParams{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := tt.params.Infer()
			if ok != tt.ok {
				t.Fatalf("Infer() ok = %v, want %v", ok, tt.ok)
			}
			if ok && m.Kind() != tt.want {
				t.Errorf("Infer() = %s, want %s", m.Kind(), tt.want)
			}
		})
	}
}

func TestBuildRequiresAllParams(t *testing.T) {
	_, err := ConversionParams{Offset: f(1)}.Build(KindSTALKER)
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}

	m, err := ConversionParams{LinearCoefficient: f(1), Offset: f(0.1), Constant: f(20)}.Build(KindSTALKER)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(STALKER); !ok {
		t.Errorf("Build = %T, want STALKER", m)
	}

	m, err = ConversionParams{}.Build(KindStandard)
	if err != nil || m != nil {
		t.Errorf("Build(standard) = %v, %v; want nil, nil", m, err)
	}

	if _, err := (ConversionParams{}).Build("quake"); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(""); err != nil || k != KindStandard {
		t.Errorf("ParseKind(\"\") = %v, %v", k, err)
	}
	if k, err := ParseKind("first_descendant"); err != nil || k != KindFirstDescendant {
		t.Errorf("ParseKind(first_descendant) = %v, %v", k, err)
	}
	if _, err := ParseKind("doom"); err == nil {
		t.Error("unknown model should fail")
	}
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.toml")
	data := `
[[games]]
name = "Krunker"
scaling_factor = 0.0015
external_id = "99001"

[[games]]
name = "Stalker Legacy"
scaling_factor = 0.05
model = "stalker"
[games.params]
linear_coefficient = 1.0
offset = 0.1
constant = 20.0

[[games]]
name = "Valorant"
scaling_factor = 0.0701
external_id = "21640"
enabled = false

[[games]]
name = "Mystery"
scaling_factor = 0.01
special = true
[games.params]
multiplier = 3.0
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(profiles) != 4 {
		t.Fatalf("got %d profiles, want 4", len(profiles))
	}
	if !profiles[0].EnabledForApp || profiles[0].Kind() != KindStandard {
		t.Errorf("Krunker = %+v", profiles[0])
	}
	if profiles[1].Kind() != KindSTALKER {
		t.Errorf("Stalker Legacy kind = %s", profiles[1].Kind())
	}
	if profiles[2].EnabledForApp {
		t.Error("enabled = false not honored")
	}
	if profiles[3].IsSpecial() {
		t.Error("unmatched special params should fall back to the standard model")
	}

	merged, err := New(Merge(Builtin(), profiles)...)
	if err != nil {
		t.Fatalf("New(Merge): %v", err)
	}
	if merged.Len() != len(builtin)+3 {
		t.Errorf("merged Len = %d, want %d", merged.Len(), len(builtin)+3)
	}
	v, _ := merged.FindByName("valorant")
	if v.ScalingFactor != 0.0701 || v.EnabledForApp {
		t.Errorf("override not applied: %+v", v)
	}
	if _, ok := merged.FindByExternalID("21640"); ok {
		t.Error("disabled override should drop detection match")
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	data := `games:
  - name: Battlebit
    scaling_factor: 0.03
    special: true
    params:
      base_value: 50.0
      scale_factor: 10.0
  - name: Old BF
    scaling_factor: 0.04
    special: true
    params:
      linear_coefficient: 0.03
      offset: 0.002
      multiplier: 1.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	profiles, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := profiles[0].Kind(); got != KindPUBG {
		t.Errorf("Battlebit kind = %s, want pubg", got)
	}
	if got := profiles[1].Kind(); got != KindBattlefield {
		t.Errorf("Old BF kind = %s, want battlefield", got)
	}
	if !profiles[0].EnabledForApp {
		t.Error("enabled should default to true")
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	_ = os.WriteFile(bad, []byte(`[[games]]
name = "Nope"
scaling_factor = 0.0
`), 0644)
	if _, err := LoadFile(bad); !errors.Is(err, ErrInvalidScalingFactor) {
		t.Errorf("zero scaling factor: err = %v", err)
	}

	incomplete := filepath.Join(dir, "incomplete.toml")
	_ = os.WriteFile(incomplete, []byte(`[[games]]
name = "Half PUBG"
scaling_factor = 0.01
model = "pubg"
[games.params]
base_value = 1.0
`), 0644)
	if _, err := LoadFile(incomplete); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("incomplete explicit model: err = %v", err)
	}

	txt := filepath.Join(dir, "games.txt")
	_ = os.WriteFile(txt, []byte("x"), 0644)
	if _, err := LoadFile(txt); err == nil {
		t.Error("unsupported extension should fail")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}
