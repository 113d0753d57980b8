// Package store provides SQLite persistence for the baseline and conversion history.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/config"
)

// ErrNoBaseline is returned by callers that require a baseline before one exists.
var ErrNoBaseline = errors.New("no baseline set")

// Store handles database operations.
type Store struct {
	db *sql.DB
}

// Baseline is the user's reference sensitivity.
type Baseline struct {
	MouseTravel         float64 // cm/360
	DPI                 int
	FavoriteGame        *string
	FavoriteSensitivity *float64
	UpdatedAt           time.Time
}

// Conversion is one recorded conversion.
type Conversion struct {
	ID                string
	SourceGame        string // empty when converted from the baseline
	SourceSensitivity float64 // 0 when converted from the baseline
	SourceDPI         float64
	TargetGame        string
	TargetDPI         float64
	TargetSensitivity float64
	Cm360             float64
	CreatedAt         time.Time
}

// Open opens the database in the data directory and ensures schema exists.
func Open() (*Store, error) {
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	return OpenPath(filepath.Join(dataDir, "sensi.db"))
}

// OpenPath opens the database at dbPath and ensures schema exists.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("Database opened")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS baseline (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			mouse_travel REAL NOT NULL,
			dpi INTEGER NOT NULL,
			favorite_game TEXT,
			favorite_sensitivity REAL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			source_game TEXT NOT NULL,
			source_sensitivity REAL NOT NULL,
			source_dpi REAL NOT NULL,
			target_game TEXT NOT NULL,
			target_dpi REAL NOT NULL,
			target_sensitivity REAL NOT NULL,
			cm360 REAL NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_conversions_created
		ON conversions(created_at);
	`)
	return err
}

// SaveBaseline creates or replaces the baseline.
func (s *Store) SaveBaseline(b Baseline) error {
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO baseline (id, mouse_travel, dpi, favorite_game, favorite_sensitivity, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mouse_travel = excluded.mouse_travel,
			dpi = excluded.dpi,
			favorite_game = excluded.favorite_game,
			favorite_sensitivity = excluded.favorite_sensitivity,
			updated_at = excluded.updated_at
	`
	_, err := s.db.Exec(query, b.MouseTravel, b.DPI, b.FavoriteGame, b.FavoriteSensitivity, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}

// GetBaseline returns the baseline, or nil if none has been saved.
func (s *Store) GetBaseline() (*Baseline, error) {
	query := `
		SELECT mouse_travel, dpi, favorite_game, favorite_sensitivity, updated_at
		FROM baseline
		WHERE id = 1
	`

	var b Baseline
	var favGame sql.NullString
	var favSens sql.NullFloat64
	err := s.db.QueryRow(query).Scan(&b.MouseTravel, &b.DPI, &favGame, &favSens, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get baseline: %w", err)
	}

	if favGame.Valid {
		b.FavoriteGame = &favGame.String
	}
	if favSens.Valid {
		b.FavoriteSensitivity = &favSens.Float64
	}
	return &b, nil
}

// SaveConversion stores a conversion record.
func (s *Store) SaveConversion(c Conversion) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO conversions (id, source_game, source_sensitivity, source_dpi,
			target_game, target_dpi, target_sensitivity, cm360, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, c.ID, c.SourceGame, c.SourceSensitivity, c.SourceDPI,
		c.TargetGame, c.TargetDPI, c.TargetSensitivity, c.Cm360, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("save conversion: %w", err)
	}
	return nil
}

// ListConversions returns the most recent conversions, newest first.
func (s *Store) ListConversions(limit int) ([]Conversion, error) {
	query := `
		SELECT id, source_game, source_sensitivity, source_dpi,
			target_game, target_dpi, target_sensitivity, cm360, created_at
		FROM conversions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Conversion
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(
			&c.ID,
			&c.SourceGame,
			&c.SourceSensitivity,
			&c.SourceDPI,
			&c.TargetGame,
			&c.TargetDPI,
			&c.TargetSensitivity,
			&c.Cm360,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

// ClearConversions deletes all conversion records and returns how many were removed.
func (s *Store) ClearConversions() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM conversions`)
	if err != nil {
		return 0, fmt.Errorf("clear conversions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}
