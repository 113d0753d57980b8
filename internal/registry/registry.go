// Package registry holds the catalog of supported games and their
// sensitivity scaling models.
package registry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrDuplicateName is returned when two profiles share a name.
	ErrDuplicateName = errors.New("duplicate game name")
	// ErrInvalidScalingFactor is returned for a non-positive scaling factor.
	ErrInvalidScalingFactor = errors.New("scaling factor must be positive")
)

// GameProfile describes one supported title.
type GameProfile struct {
	Name string
	// ScalingFactor drives the standard model and is the fallback for
	// special models whose parameters are unusable.
	ScalingFactor float64
	// ExternalID maps a detected game to this profile. Empty or "0" means
	// manual selection only.
	ExternalID    string
	EnabledForApp bool
	// Model is nil for the standard model.
	Model Model
}

// IsSpecial reports whether the profile uses a special formula family.
func (p GameProfile) IsSpecial() bool {
	return p.Model != nil
}

// Kind returns the profile's formula family.
func (p GameProfile) Kind() Kind {
	if p.Model == nil {
		return KindStandard
	}
	return p.Model.Kind()
}

// Detectable reports whether the profile can be matched by game detection.
func (p GameProfile) Detectable() bool {
	return p.EnabledForApp && p.ExternalID != "" && p.ExternalID != "0"
}

func (p GameProfile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("game name cannot be empty")
	}
	if !(p.ScalingFactor > 0) || math.IsInf(p.ScalingFactor, 0) {
		return fmt.Errorf("%s: %w (got %v)", p.Name, ErrInvalidScalingFactor, p.ScalingFactor)
	}
	return nil
}

// Registry is an immutable, ordered catalog of game profiles.
// It is safe for concurrent use.
type Registry struct {
	profiles     []GameProfile // sorted by name
	byName       map[string]int
	byExternalID map[string]int
}

// New builds a registry from the given profiles. Names are compared
// case-insensitively.
func New(profiles ...GameProfile) (*Registry, error) {
	r := &Registry{
		profiles:     make([]GameProfile, 0, len(profiles)),
		byName:       make(map[string]int, len(profiles)),
		byExternalID: make(map[string]int),
	}

	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if err := p.validate(); err != nil {
			return nil, err
		}
		key := nameKey(p.Name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		seen[key] = struct{}{}
		r.profiles = append(r.profiles, p)
	}

	sort.SliceStable(r.profiles, func(i, j int) bool {
		return nameKey(r.profiles[i].Name) < nameKey(r.profiles[j].Name)
	})

	for i, p := range r.profiles {
		r.byName[nameKey(p.Name)] = i
		if p.Detectable() {
			// first enabled profile in name order owns a shared id
			if _, ok := r.byExternalID[p.ExternalID]; !ok {
				r.byExternalID[p.ExternalID] = i
			}
		}
	}

	return r, nil
}

// FindByName looks a profile up by name, ignoring case.
func (r *Registry) FindByName(name string) (GameProfile, bool) {
	i, ok := r.byName[nameKey(name)]
	if !ok {
		return GameProfile{}, false
	}
	return r.profiles[i], true
}

// FindByExternalID returns the enabled profile mapped to a detection id.
func (r *Registry) FindByExternalID(id string) (GameProfile, bool) {
	i, ok := r.byExternalID[strings.TrimSpace(id)]
	if !ok {
		return GameProfile{}, false
	}
	return r.profiles[i], true
}

// ListEnabled returns the user-selectable profiles in alphabetical order.
func (r *Registry) ListEnabled() []GameProfile {
	out := make([]GameProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		if p.EnabledForApp {
			out = append(out, p)
		}
	}
	return out
}

// All returns every profile, including disabled ones, in alphabetical order.
func (r *Registry) All() []GameProfile {
	out := make([]GameProfile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Len returns the number of profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
