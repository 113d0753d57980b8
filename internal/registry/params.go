package registry

import "fmt"

// ConversionParams is the untyped coefficient record used by catalog files.
// A nil field is absent.
type ConversionParams struct {
	LinearCoefficient *float64 `toml:"linear_coefficient" yaml:"linear_coefficient"`
	Offset            *float64 `toml:"offset" yaml:"offset"`
	Multiplier        *float64 `toml:"multiplier" yaml:"multiplier"`
	BaseValue         *float64 `toml:"base_value" yaml:"base_value"`
	ScaleFactor       *float64 `toml:"scale_factor" yaml:"scale_factor"`
	Constant          *float64 `toml:"constant" yaml:"constant"`
}

// Empty reports whether no coefficient is set.
func (c ConversionParams) Empty() bool {
	return c.LinearCoefficient == nil && c.Offset == nil && c.Multiplier == nil &&
		c.BaseValue == nil && c.ScaleFactor == nil && c.Constant == nil
}

// Infer selects a family from the set of populated keys. The checks run in a
// fixed order and the first full match wins, so a key set that satisfies an
// earlier family never reaches a later one: STALKER and FirstDescendant key
// sets resolve to GTA5 here and must name their model explicitly.
// It returns false when no family matches.
func (c ConversionParams) Infer() (Model, bool) {
	has := func(v *float64) bool { return v != nil }
	lc, off, mult := has(c.LinearCoefficient), has(c.Offset), has(c.Multiplier)
	base, sf, konst := has(c.BaseValue), has(c.ScaleFactor), has(c.Constant)

	switch {
	case lc && off && mult && !(konst && sf):
		return Battlefield{
			LinearCoefficient: *c.LinearCoefficient,
			Offset:            *c.Offset,
			Multiplier:        *c.Multiplier,
		}, true
	case konst && off && !(sf && (mult || lc)):
		return GTA5{Constant: *c.Constant, Offset: *c.Offset}, true
	case lc && off && mult && konst && sf:
		return Minecraft{
			LinearCoefficient: *c.LinearCoefficient,
			Offset:            *c.Offset,
			Multiplier:        *c.Multiplier,
			Constant:          *c.Constant,
			ScaleFactor:       *c.ScaleFactor,
		}, true
	case base && sf:
		return PUBG{BaseValue: *c.BaseValue, ScaleFactor: *c.ScaleFactor}, true
	case lc && off && konst && !mult:
		return STALKER{
			LinearCoefficient: *c.LinearCoefficient,
			Offset:            *c.Offset,
			Constant:          *c.Constant,
		}, true
	case off && konst && !lc:
		return FirstDescendant{Offset: *c.Offset, Constant: *c.Constant}, true
	}
	return nil, false
}

// Build constructs the model of kind k, requiring every coefficient the
// family uses. KindStandard yields a nil Model.
func (c ConversionParams) Build(k Kind) (Model, error) {
	var missing []string
	get := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}

	var m Model
	switch k {
	case KindStandard:
		return nil, nil
	case KindBattlefield:
		m = Battlefield{
			LinearCoefficient: get("linear_coefficient", c.LinearCoefficient),
			Offset:            get("offset", c.Offset),
			Multiplier:        get("multiplier", c.Multiplier),
		}
	case KindGTA5:
		m = GTA5{
			Constant: get("constant", c.Constant),
			Offset:   get("offset", c.Offset),
		}
	case KindMinecraft:
		m = Minecraft{
			LinearCoefficient: get("linear_coefficient", c.LinearCoefficient),
			Offset:            get("offset", c.Offset),
			Multiplier:        get("multiplier", c.Multiplier),
			Constant:          get("constant", c.Constant),
			ScaleFactor:       get("scale_factor", c.ScaleFactor),
		}
	case KindPUBG:
		m = PUBG{
			BaseValue:   get("base_value", c.BaseValue),
			ScaleFactor: get("scale_factor", c.ScaleFactor),
		}
	case KindSTALKER:
		m = STALKER{
			LinearCoefficient: get("linear_coefficient", c.LinearCoefficient),
			Offset:            get("offset", c.Offset),
			Constant:          get("constant", c.Constant),
		}
	case KindFirstDescendant:
		m = FirstDescendant{
			Offset:   get("offset", c.Offset),
			Constant: get("constant", c.Constant),
		}
	default:
		return nil, fmt.Errorf("unknown conversion model %q", k)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s requires %v", ErrInvalidParams, k, missing)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
