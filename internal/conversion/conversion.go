// Package conversion maps a game's native mouse sensitivity to the
// cm/360 baseline and back.
//
// All functions are pure and safe for concurrent use. Inputs are not
// validated: non-positive or non-finite values yield NaN or Inf instead of
// an error. Callers reject bad input first with ValidateInputs.
package conversion

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/registry"
)

// CmPerInch converts inches of mouse travel to centimeters.
const CmPerInch = 2.54

const fullTurn = 360.0

var (
	ErrInvalidSensitivity = errors.New("sensitivity must be a positive number")
	ErrInvalidDPI         = errors.New("dpi must be a positive number")
)

// Result is the outcome of a cross-game conversion.
type Result struct {
	TargetSensitivity float64
	Cm360             float64
}

// ToCm360 returns the centimeters of mouse travel for a 360 degree turn.
func ToCm360(p registry.GameProfile, sensitivity, dpi float64) float64 {
	return inches360(p, sensitivity, dpi) * CmPerInch
}

// FromCm360 returns the in-game sensitivity that yields cm360 at dpi.
func FromCm360(p registry.GameProfile, cm360, dpi float64) float64 {
	return sensitivityFor(p, cm360/CmPerInch, dpi)
}

// Convert translates a sensitivity from one game to another through cm/360.
func Convert(source registry.GameProfile, sourceSensitivity, sourceDPI float64,
	target registry.GameProfile, targetDPI float64) Result {
	cm := ToCm360(source, sourceSensitivity, sourceDPI)
	return Result{
		TargetSensitivity: FromCm360(target, cm, targetDPI),
		Cm360:             cm,
	}
}

// ValidateInputs rejects sensitivities and DPI values the engine cannot use.
func ValidateInputs(sensitivity, dpi float64) error {
	if !positive(sensitivity) {
		return fmt.Errorf("%w: %v", ErrInvalidSensitivity, sensitivity)
	}
	if !positive(dpi) {
		return fmt.Errorf("%w: %v", ErrInvalidDPI, dpi)
	}
	return nil
}

// EDPI is the product of DPI and sensitivity, a display-only metric.
func EDPI(sensitivity, dpi float64) float64 {
	return sensitivity * dpi
}

func inches360(p registry.GameProfile, s, dpi float64) float64 {
	var in float64
	switch m := model(p).(type) {
	case registry.Battlefield:
		in = fullTurn / (((m.LinearCoefficient*s + m.Offset) * m.Multiplier) * dpi)
	case registry.GTA5:
		in = m.Constant / (dpi * (s + m.Offset))
	case registry.Minecraft:
		in = fullTurn / (m.LinearCoefficient * math.Pow(m.Offset*s*m.Multiplier+m.Constant, 3) * dpi)
	case registry.PUBG:
		in = fullTurn / (math.Exp((s-m.BaseValue)/m.ScaleFactor) * dpi)
	case registry.STALKER:
		in = fullTurn / ((m.LinearCoefficient * (s + m.Offset) / m.Constant) * dpi)
	case registry.FirstDescendant:
		in = fullTurn / (((s - m.Offset) / m.Constant) * dpi)
	default:
		in = fullTurn / (p.ScalingFactor * s * dpi)
	}
	traceNonFinite(p, "to_cm360", in)
	return in
}

func sensitivityFor(p registry.GameProfile, in, dpi float64) float64 {
	var s float64
	switch m := model(p).(type) {
	case registry.Battlefield:
		s = (fullTurn/(in*m.Multiplier*dpi) - m.Offset) / m.LinearCoefficient
	case registry.GTA5:
		s = m.Constant/(dpi*in) - m.Offset
	case registry.Minecraft:
		x := math.Cbrt(fullTurn / (in * m.LinearCoefficient * dpi))
		s = (x - m.Constant) / (m.Offset * m.Multiplier)
	case registry.PUBG:
		s = m.BaseValue + m.ScaleFactor*math.Log(fullTurn/(dpi*in))
	case registry.STALKER:
		s = fullTurn*m.Constant/(in*dpi*m.LinearCoefficient) - m.Offset
	case registry.FirstDescendant:
		s = fullTurn*m.Constant/(in*dpi) + m.Offset
	default:
		s = fullTurn / (p.ScalingFactor * dpi * in)
	}
	traceNonFinite(p, "from_cm360", s)
	return s
}

// model returns the special model to evaluate, or nil for the standard
// model. Unusable parameters fall back to the scaling factor.
func model(p registry.GameProfile) registry.Model {
	if p.Model == nil {
		return nil
	}
	if err := p.Model.Validate(); err != nil {
		log.Debug().
			Err(err).
			Str("game", p.Name).
			Float64("scaling_factor", p.ScalingFactor).
			Msg("Special conversion unavailable, using scaling factor")
		return nil
	}
	return p.Model
}

func traceNonFinite(p registry.GameProfile, op string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		log.Debug().
			Str("game", p.Name).
			Str("model", string(p.Kind())).
			Str("op", op).
			Float64("value", v).
			Msg("Conversion produced a non-finite value")
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
