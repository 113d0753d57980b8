package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of an extra catalog.
type catalogFile struct {
	Games []catalogEntry `toml:"games" yaml:"games"`
}

type catalogEntry struct {
	Name          string           `toml:"name" yaml:"name"`
	ScalingFactor float64          `toml:"scaling_factor" yaml:"scaling_factor"`
	ExternalID    string           `toml:"external_id" yaml:"external_id"`
	Enabled       *bool            `toml:"enabled" yaml:"enabled"`
	Special       bool             `toml:"special" yaml:"special"`
	Model         string           `toml:"model" yaml:"model"`
	Params        ConversionParams `toml:"params" yaml:"params"`
}

// LoadFile reads extra game profiles from a TOML or YAML catalog file.
func LoadFile(path string) ([]GameProfile, error) {
	//nolint:gosec // G304: Path comes from the user's config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var cf catalogFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cf); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("catalog must be .toml, .yaml or .yml: %s", path)
	}

	profiles := make([]GameProfile, 0, len(cf.Games))
	for i, e := range cf.Games {
		p, err := e.profile()
		if err != nil {
			return nil, fmt.Errorf("catalog %s: games[%d]: %w", path, i, err)
		}
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("catalog %s: games[%d]: %w", path, i, err)
		}
		profiles = append(profiles, p)
	}

	log.Debug().Str("path", path).Int("count", len(profiles)).Msg("Loaded catalog file")
	return profiles, nil
}

func (e catalogEntry) profile() (GameProfile, error) {
	p := GameProfile{
		Name:          strings.TrimSpace(e.Name),
		ScalingFactor: e.ScalingFactor,
		ExternalID:    strings.TrimSpace(e.ExternalID),
		EnabledForApp: e.Enabled == nil || *e.Enabled,
	}

	if e.Model != "" {
		k, err := ParseKind(e.Model)
		if err != nil {
			return GameProfile{}, err
		}
		m, err := e.Params.Build(k)
		if err != nil {
			return GameProfile{}, fmt.Errorf("%s: %w", p.Name, err)
		}
		p.Model = m
		return p, nil
	}

	if !e.Special {
		if !e.Params.Empty() {
			log.Warn().Str("game", p.Name).Msg("Ignoring params on a non-special catalog entry")
		}
		return p, nil
	}

	m, ok := e.Params.Infer()
	if !ok {
		log.Warn().Str("game", p.Name).Msg("No conversion model matches params, using scaling factor")
		return p, nil
	}
	if m.Kind() == KindGTA5 && e.Params.LinearCoefficient != nil {
		log.Warn().
			Str("game", p.Name).
			Msg("Params also fit a later model but resolved to gta5; set model explicitly")
	}
	p.Model = m
	return p, nil
}

// Merge overlays extra profiles on base. An extra profile replaces a base
// profile with the same name.
func Merge(base, extra []GameProfile) []GameProfile {
	idx := make(map[string]int, len(base))
	out := make([]GameProfile, 0, len(base)+len(extra))
	for _, p := range base {
		idx[nameKey(p.Name)] = len(out)
		out = append(out, p)
	}
	for _, p := range extra {
		if i, ok := idx[nameKey(p.Name)]; ok {
			out[i] = p
			continue
		}
		idx[nameKey(p.Name)] = len(out)
		out = append(out, p)
	}
	return out
}
