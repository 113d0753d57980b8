// Package baseline manages the user's reference sensitivity and the
// conversions derived from it.
package baseline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/conversion"
	"github.com/xonecas/sensi/internal/registry"
	"github.com/xonecas/sensi/internal/store"
)

// ErrNoResult is returned when a game's model has no finite answer for the inputs.
var ErrNoResult = errors.New("no finite result for these inputs")

// Manager handles onboarding, baseline changes, and conversion history.
type Manager struct {
	db  *store.Store
	now func() time.Time
}

// NewManager creates a new baseline manager.
func NewManager(db *store.Store) *Manager {
	return &Manager{db: db, now: time.Now}
}

// Onboard stores the first baseline, or replaces an existing one.
// An empty favoriteGame and a zero favoriteSens are stored as unset.
func (m *Manager) Onboard(cm360 float64, dpi int, favoriteGame string, favoriteSens float64) (*store.Baseline, error) {
	if !finitePositive(cm360) {
		return nil, fmt.Errorf("mouse travel must be a positive number of cm, got %v", cm360)
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: %d", conversion.ErrInvalidDPI, dpi)
	}

	b := store.Baseline{
		MouseTravel: cm360,
		DPI:         dpi,
		UpdatedAt:   m.now().UTC(),
	}
	if favoriteGame != "" {
		b.FavoriteGame = &favoriteGame
	}
	if favoriteSens != 0 {
		if !finitePositive(favoriteSens) {
			return nil, fmt.Errorf("%w: %v", conversion.ErrInvalidSensitivity, favoriteSens)
		}
		b.FavoriteSensitivity = &favoriteSens
	}

	if err := m.db.SaveBaseline(b); err != nil {
		return nil, err
	}
	log.Info().Float64("cm360", cm360).Int("dpi", dpi).Msg("Baseline saved")
	return &b, nil
}

// SetFromGame derives the baseline from a sensitivity the user already
// plays with in game, and marks that game as the favorite.
func (m *Manager) SetFromGame(game registry.GameProfile, sens float64, dpi int) (*store.Baseline, error) {
	if err := conversion.ValidateInputs(sens, float64(dpi)); err != nil {
		return nil, err
	}
	cm := conversion.ToCm360(game, sens, float64(dpi))
	if !finitePositive(cm) {
		return nil, fmt.Errorf("%s: %w", game.Name, ErrNoResult)
	}
	return m.Onboard(cm, dpi, game.Name, sens)
}

// Current returns the stored baseline or store.ErrNoBaseline.
func (m *Manager) Current() (*store.Baseline, error) {
	b, err := m.db.GetBaseline()
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	if b == nil {
		return nil, store.ErrNoBaseline
	}
	return b, nil
}

// Suggest returns the sensitivity for game that reproduces the baseline.
// A dpi of 0 uses the baseline's DPI. The suggestion is recorded in history.
func (m *Manager) Suggest(game registry.GameProfile, dpi int) (*store.Conversion, error) {
	b, err := m.Current()
	if err != nil {
		return nil, err
	}
	if dpi == 0 {
		dpi = b.DPI
	}
	if dpi < 0 {
		return nil, fmt.Errorf("%w: %d", conversion.ErrInvalidDPI, dpi)
	}

	sens := conversion.FromCm360(game, b.MouseTravel, float64(dpi))
	if !finitePositive(sens) {
		return nil, fmt.Errorf("%s: %w", game.Name, ErrNoResult)
	}

	c := store.Conversion{
		ID:                uuid.New().String(),
		SourceDPI:         float64(b.DPI),
		TargetGame:        game.Name,
		TargetDPI:         float64(dpi),
		TargetSensitivity: sens,
		Cm360:             b.MouseTravel,
		CreatedAt:         m.now().UTC(),
	}
	m.record(c)
	return &c, nil
}

// Convert translates a sensitivity between two games and records it.
// A targetDPI of 0 keeps the source DPI.
func (m *Manager) Convert(source registry.GameProfile, sens, dpi float64,
	target registry.GameProfile, targetDPI float64) (*store.Conversion, error) {
	if targetDPI == 0 {
		targetDPI = dpi
	}
	if err := conversion.ValidateInputs(sens, dpi); err != nil {
		return nil, err
	}
	if !finitePositive(targetDPI) {
		return nil, fmt.Errorf("target %w: %v", conversion.ErrInvalidDPI, targetDPI)
	}

	res := conversion.Convert(source, sens, dpi, target, targetDPI)
	if !finitePositive(res.Cm360) {
		return nil, fmt.Errorf("%s: %w", source.Name, ErrNoResult)
	}
	if !finitePositive(res.TargetSensitivity) {
		return nil, fmt.Errorf("%s: %w", target.Name, ErrNoResult)
	}

	c := store.Conversion{
		ID:                uuid.New().String(),
		SourceGame:        source.Name,
		SourceSensitivity: sens,
		SourceDPI:         dpi,
		TargetGame:        target.Name,
		TargetDPI:         targetDPI,
		TargetSensitivity: res.TargetSensitivity,
		Cm360:             res.Cm360,
		CreatedAt:         m.now().UTC(),
	}
	m.record(c)
	return &c, nil
}

// History returns recent conversions, newest first.
func (m *Manager) History(limit int) ([]store.Conversion, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("history limit must be positive, got %d", limit)
	}
	history, err := m.db.ListConversions(limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

// ClearHistory deletes all recorded conversions.
func (m *Manager) ClearHistory() (int64, error) {
	n, err := m.db.ClearConversions()
	if err != nil {
		return 0, err
	}
	log.Info().Int64("count", n).Msg("Conversion history cleared")
	return n, nil
}

// EDPI returns the eDPI of the baseline suggestion for game, or 0 without a baseline.
func (m *Manager) EDPI(game registry.GameProfile) float64 {
	b, err := m.Current()
	if err != nil {
		return 0
	}
	return conversion.EDPI(conversion.FromCm360(game, b.MouseTravel, float64(b.DPI)), float64(b.DPI))
}

// record saves c to history. A failed write is logged, not returned:
// the conversion itself already succeeded.
func (m *Manager) record(c store.Conversion) {
	if err := m.db.SaveConversion(c); err != nil {
		log.Warn().Err(err).Str("target", c.TargetGame).Msg("Failed to save conversion to database")
	}
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// FormatAge formats an elapsed duration in human-readable form.
func FormatAge(d time.Duration) string {
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
