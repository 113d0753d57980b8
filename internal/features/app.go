package features

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/config"
	"github.com/xonecas/sensi/internal/detect"
	"github.com/xonecas/sensi/internal/registry"
)

// LoadRegistry builds the game registry from the built-in catalog and the
// optional catalog file named in cfg. This is shared by both CLI and TUI modes.
func LoadRegistry(cfg *config.Config) (*registry.Registry, error) {
	profiles := registry.Builtin()

	if cfg.Catalog != "" {
		extra, err := registry.LoadFile(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		profiles = registry.Merge(profiles, extra)
		log.Info().Str("path", cfg.Catalog).Int("games", len(extra)).Msg("Loaded extra catalog")
	}

	reg, err := registry.New(profiles...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	log.Debug().
		Int("games", reg.Len()).
		Int("disabled", len(reg.All())-len(reg.ListEnabled())).
		Msg("Registry ready")
	return reg, nil
}

// NewDetector creates the running-game watcher described by cfg, or nil
// when detection is disabled or no processes are mapped.
func NewDetector(cfg *config.Config, reg *registry.Registry, callbacks detect.Callbacks) *detect.Service {
	if !cfg.Detect.Enabled {
		log.Debug().Msg("Game detection disabled")
		return nil
	}
	if len(cfg.Detect.Processes) == 0 {
		log.Debug().Msg("No processes mapped, game detection off")
		return nil
	}
	src := detect.NewProcessSource(cfg.Detect.Processes)
	return detect.NewService(src, reg, cfg.Detect.Interval.Duration, callbacks)
}

// SetupFileLogging configures zerolog to write to a file.
// This is used by TUI and watch modes to avoid collision with the display.
func SetupFileLogging(debug bool) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return fmt.Errorf("get data directory: %w", err)
	}

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	logFile := filepath.Join(logDir, "sensi.log")
	//nolint:gosec // G304: Path built from the data directory
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	// JSON to the log file, plus a human-readable debug file in debug mode
	writers := []io.Writer{file}
	if debug {
		debugFile := filepath.Join(logDir, "sensi-debug.log")
		//nolint:gosec // G304: Path built from the data directory
		debugFileWriter, err := os.OpenFile(debugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open debug log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: debugFileWriter, TimeFormat: time.RFC3339})
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	SetLevel(debug)

	log.Info().
		Str("log_file", logFile).
		Bool("debug", debug).
		Msg("File logging initialized")

	return nil
}

// SetupConsoleLogging sends human-readable logs to stderr.
func SetupConsoleLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	SetLevel(debug)
}

// SetLevel sets the global log level.
func SetLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
