package registry

import (
	"errors"
	"fmt"
	"math"
)

// Kind names a sensitivity formula family.
type Kind string

const (
	KindStandard        Kind = "standard"
	KindBattlefield     Kind = "battlefield"
	KindGTA5            Kind = "gta5"
	KindMinecraft       Kind = "minecraft"
	KindPUBG            Kind = "pubg"
	KindSTALKER         Kind = "stalker"
	KindFirstDescendant Kind = "first_descendant"
)

// ErrInvalidParams is returned when a model's coefficients cannot produce an
// invertible conversion.
var ErrInvalidParams = errors.New("invalid conversion parameters")

// Model is the scaling model of a game. The concrete types below are the
// only implementations; a nil Model means the standard scaling-factor model.
type Model interface {
	Kind() Kind
	Validate() error
	isModel()
}

// Battlefield: 360 / (((LinearCoefficient*sens + Offset) * Multiplier) * dpi)
type Battlefield struct {
	LinearCoefficient float64
	Offset            float64
	Multiplier        float64
}

// GTA5: Constant / (dpi * (sens + Offset))
type GTA5 struct {
	Constant float64
	Offset   float64
}

// Minecraft: 360 / (LinearCoefficient * (Offset*sens*Multiplier + Constant)^3 * dpi)
//
// ScaleFactor does not enter the formula. It is part of the family's
// parameter set and must be present for catalog entries to select it.
type Minecraft struct {
	LinearCoefficient float64
	Offset            float64
	Multiplier        float64
	Constant          float64
	ScaleFactor       float64
}

// PUBG: 360 / (exp((sens - BaseValue) / ScaleFactor) * dpi)
type PUBG struct {
	BaseValue   float64
	ScaleFactor float64
}

// STALKER: 360 / ((LinearCoefficient * (sens + Offset) / Constant) * dpi)
type STALKER struct {
	LinearCoefficient float64
	Offset            float64
	Constant          float64
}

// FirstDescendant: 360 / (((sens - Offset) / Constant) * dpi)
type FirstDescendant struct {
	Offset   float64
	Constant float64
}

func (Battlefield) Kind() Kind     { return KindBattlefield }
func (GTA5) Kind() Kind            { return KindGTA5 }
func (Minecraft) Kind() Kind       { return KindMinecraft }
func (PUBG) Kind() Kind            { return KindPUBG }
func (STALKER) Kind() Kind         { return KindSTALKER }
func (FirstDescendant) Kind() Kind { return KindFirstDescendant }

func (Battlefield) isModel()     {}
func (GTA5) isModel()            {}
func (Minecraft) isModel()       {}
func (PUBG) isModel()            {}
func (STALKER) isModel()         {}
func (FirstDescendant) isModel() {}

// Validate rejects non-finite coefficients and zero divisors of the inverse.
func (m Battlefield) Validate() error {
	return check(m.Kind(),
		param{"linear_coefficient", m.LinearCoefficient, true},
		param{"offset", m.Offset, false},
		param{"multiplier", m.Multiplier, true},
	)
}

func (m GTA5) Validate() error {
	return check(m.Kind(),
		param{"constant", m.Constant, true},
		param{"offset", m.Offset, false},
	)
}

func (m Minecraft) Validate() error {
	return check(m.Kind(),
		param{"linear_coefficient", m.LinearCoefficient, true},
		param{"offset", m.Offset, true},
		param{"multiplier", m.Multiplier, true},
		param{"constant", m.Constant, false},
		param{"scale_factor", m.ScaleFactor, false},
	)
}

func (m PUBG) Validate() error {
	return check(m.Kind(),
		param{"base_value", m.BaseValue, false},
		param{"scale_factor", m.ScaleFactor, true},
	)
}

func (m STALKER) Validate() error {
	return check(m.Kind(),
		param{"linear_coefficient", m.LinearCoefficient, true},
		param{"offset", m.Offset, false},
		param{"constant", m.Constant, true},
	)
}

func (m FirstDescendant) Validate() error {
	return check(m.Kind(),
		param{"offset", m.Offset, false},
		param{"constant", m.Constant, true},
	)
}

type param struct {
	name    string
	value   float64
	divisor bool
}

func check(k Kind, ps ...param) error {
	for _, p := range ps {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s %s is not finite", ErrInvalidParams, k, p.name)
		}
		if p.divisor && p.value == 0 {
			return fmt.Errorf("%w: %s requires non-zero %s", ErrInvalidParams, k, p.name)
		}
	}
	return nil
}

// ParseKind maps a catalog model name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindStandard, KindBattlefield, KindGTA5, KindMinecraft,
		KindPUBG, KindSTALKER, KindFirstDescendant:
		return k, nil
	case "":
		return KindStandard, nil
	}
	return "", fmt.Errorf("unknown conversion model %q", s)
}
