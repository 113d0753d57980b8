package conversion

import (
	"errors"
	"math"
	"testing"

	"github.com/xonecas/sensi/internal/registry"
)

var (
	sampleSens = []float64{0.01, 0.35, 1.0, 5.0}
	sampleDPI  = []float64{400, 800, 1600, 3200}
)

func assertClose(t *testing.T, got, want, relTol float64, what string) {
	t.Helper()
	diff := math.Abs(got - want)
	if diff > relTol*math.Abs(want) {
		t.Errorf("%s = %.15g, want %.15g (rel err %.3g)", what, got, want, diff/math.Abs(want))
	}
}

func mustFind(t *testing.T, r *registry.Registry, name string) registry.GameProfile {
	t.Helper()
	p, ok := r.FindByName(name)
	if !ok {
		t.Fatalf("profile %q not found", name)
	}
	return p
}

func TestRoundTripEveryProfile(t *testing.T) {
	for _, p := range registry.Default().All() {
		t.Run(p.Name, func(t *testing.T) {
			for _, s := range sampleSens {
				for _, d := range sampleDPI {
					cm := ToCm360(p, s, d)
					got := FromCm360(p, cm, d)
					assertClose(t, got, s, 1e-9, p.Name+" round trip")
				}
			}
		})
	}
}

func TestCrossGameRoundTrip(t *testing.T) {
	all := registry.Default().All()
	for _, a := range all {
		for _, b := range all {
			for _, s := range sampleSens {
				res := Convert(a, s, 800, b, 1600)
				back := Convert(b, res.TargetSensitivity, 1600, a, 800)
				assertClose(t, back.TargetSensitivity, s, 1e-9, a.Name+" -> "+b.Name+" -> back")
				assertClose(t, back.Cm360, res.Cm360, 1e-9, "pivot cm/360")
			}
		}
	}
}

func TestToCm360DecreasesWithSensitivity(t *testing.T) {
	for _, p := range registry.Default().All() {
		for _, d := range sampleDPI {
			prev := math.Inf(1)
			for _, s := range sampleSens {
				cm := ToCm360(p, s, d)
				if !(cm < prev) {
					t.Errorf("%s (%s) at dpi %v: cm/360 %v at sens %v is not below %v",
						p.Name, p.Kind(), d, cm, s, prev)
				}
				prev = cm
			}
		}
	}
}

func TestStandardModelDPIScaling(t *testing.T) {
	p := registry.GameProfile{Name: "Synthetic", ScalingFactor: 0.022}
	for _, k := range []float64{0.25, 0.5, 2, 3, 10} {
		for _, s := range sampleSens {
			for _, d := range sampleDPI {
				assertClose(t, ToCm360(p, s*k, d/k), ToCm360(p, s, d), 1e-12, "scaled cm/360")
			}
		}
	}
}

func TestFallbackToStandardModel(t *testing.T) {
	standard := registry.GameProfile{Name: "Standard", ScalingFactor: 0.05}

	t.Run("no family matches params", func(t *testing.T) {
		base := 1.0
		params := registry.ConversionParams{BaseValue: &base}
		m, ok := params.Infer()
		if ok {
			t.Fatalf("Infer() matched %v, want no match", m.Kind())
		}
		p := registry.GameProfile{Name: "Broken", ScalingFactor: 0.05, Model: m}
		for _, s := range sampleSens {
			for _, d := range sampleDPI {
				if got, want := ToCm360(p, s, d), ToCm360(standard, s, d); got != want {
					t.Errorf("ToCm360 = %v, want standard %v", got, want)
				}
			}
		}
	})

	t.Run("invalid special params", func(t *testing.T) {
		models := []registry.Model{
			registry.PUBG{BaseValue: 114.8, ScaleFactor: 0},
			registry.Battlefield{LinearCoefficient: 0, Offset: 1, Multiplier: 1},
			registry.Minecraft{LinearCoefficient: 1.2, Offset: 0, Multiplier: 1, Constant: 0.2},
			registry.STALKER{LinearCoefficient: 1, Offset: 0.1, Constant: math.NaN()},
			registry.FirstDescendant{Offset: 1, Constant: 0},
			registry.GTA5{Constant: 0, Offset: 1},
		}
		for _, m := range models {
			p := registry.GameProfile{Name: "Broken " + string(m.Kind()), ScalingFactor: 0.05, Model: m}
			if !p.IsSpecial() {
				t.Fatalf("%s should be special", p.Name)
			}
			cm := ToCm360(p, 1.5, 800)
			if want := ToCm360(standard, 1.5, 800); cm != want {
				t.Errorf("%s: ToCm360 = %v, want standard %v", p.Name, cm, want)
			}
			if got, want := FromCm360(p, 30, 800), FromCm360(standard, 30, 800); got != want {
				t.Errorf("%s: FromCm360 = %v, want standard %v", p.Name, got, want)
			}
		}
	})
}

func TestCounterStrike2Literal(t *testing.T) {
	p := mustFind(t, registry.Default(), "Counter-Strike 2")
	if p.ScalingFactor != 0.02199999511 {
		t.Fatalf("ScalingFactor = %v", p.ScalingFactor)
	}
	got := ToCm360(p, 2.0, 800)
	assertClose(t, got, 25.97727850131327, 1e-12, "cs2 cm/360")
	assertClose(t, got, 360/(0.02199999511*2.0*800)*2.54, 1e-15, "cs2 formula")
}

func TestPUBGLiteral(t *testing.T) {
	p := registry.GameProfile{
		Name:          "PUBG",
		ScalingFactor: 0.002,
		Model:         registry.PUBG{BaseValue: 114.80, ScaleFactor: 21.769},
	}
	cm := ToCm360(p, 50, 800)
	assertClose(t, cm, 22.429260646262346, 1e-9, "pubg cm/360")
	assertClose(t, FromCm360(p, cm, 800), 50, 1e-9, "pubg sensitivity")
}

func TestSpecialFormulas(t *testing.T) {
	tests := []struct {
		name  string
		model registry.Model
		sens  float64
		dpi   float64
		want  float64 // inches per 360
	}{
		{"battlefield", registry.Battlefield{LinearCoefficient: 0.5, Offset: 0.25, Multiplier: 2}, 1.5, 400, 360 / (((0.5*1.5 + 0.25) * 2) * 400)},
		{"gta5", registry.GTA5{Constant: 40000, Offset: 0.3}, 5, 800, 40000 / (800 * 5.3)},
		{"minecraft", registry.Minecraft{LinearCoefficient: 1.2, Offset: 0.6, Multiplier: 1, Constant: 0.2, ScaleFactor: 0.15}, 0.5, 800, 360 / (1.2 * math.Pow(0.5, 3) * 800)},
		{"pubg", registry.PUBG{BaseValue: 50, ScaleFactor: 10}, 50, 800, 360.0 / 800},
		{"stalker", registry.STALKER{LinearCoefficient: 2, Offset: 0.5, Constant: 4}, 1.5, 1000, 360 / ((2 * 2.0 / 4) * 1000)},
		{"first descendant", registry.FirstDescendant{Offset: -1, Constant: 100}, 1, 800, 360 / ((2.0 / 100) * 800)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := registry.GameProfile{Name: tt.name, ScalingFactor: 1, Model: tt.model}
			assertClose(t, ToCm360(p, tt.sens, tt.dpi), tt.want*CmPerInch, 1e-12, "cm/360")
			assertClose(t, FromCm360(p, tt.want*CmPerInch, tt.dpi), tt.sens, 1e-12, "sensitivity")
		})
	}
}

func TestConvertUsesPivot(t *testing.T) {
	r := registry.Default()
	cs := mustFind(t, r, "Counter-Strike 2")
	val := mustFind(t, r, "Valorant")

	res := Convert(cs, 2.0, 800, val, 800)
	assertClose(t, res.Cm360, ToCm360(cs, 2.0, 800), 1e-15, "cm/360")
	// both standard: ratio of scaling factors
	assertClose(t, res.TargetSensitivity, 2.0*0.02199999511/0.07, 1e-12, "valorant sensitivity")
}

func TestDegenerateInputsDoNotPanic(t *testing.T) {
	for _, p := range registry.Default().All() {
		for _, in := range [][2]float64{{0, 800}, {1, 0}, {-1, 800}, {math.NaN(), 800}, {1, math.Inf(1)}} {
			_ = ToCm360(p, in[0], in[1])
			_ = FromCm360(p, in[0], in[1])
		}
	}
	p := registry.GameProfile{Name: "Zero", ScalingFactor: 0.022}
	if got := ToCm360(p, 0, 800); !math.IsInf(got, 1) {
		t.Errorf("ToCm360 with zero sensitivity = %v, want +Inf", got)
	}
}

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		sens, dpi float64
		want      error
	}{
		{1, 800, nil},
		{0, 800, ErrInvalidSensitivity},
		{-2, 800, ErrInvalidSensitivity},
		{math.NaN(), 800, ErrInvalidSensitivity},
		{math.Inf(1), 800, ErrInvalidSensitivity},
		{1, 0, ErrInvalidDPI},
		{1, -400, ErrInvalidDPI},
	}
	for _, tt := range tests {
		err := ValidateInputs(tt.sens, tt.dpi)
		if !errors.Is(err, tt.want) {
			t.Errorf("ValidateInputs(%v, %v) = %v, want %v", tt.sens, tt.dpi, err, tt.want)
		}
	}
}

func TestEDPI(t *testing.T) {
	if got := EDPI(0.4, 800); math.Abs(got-320) > 1e-9 {
		t.Errorf("EDPI = %v, want 320", got)
	}
}
