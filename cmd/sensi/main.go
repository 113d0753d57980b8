package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/baseline"
	"github.com/xonecas/sensi/internal/cli"
	"github.com/xonecas/sensi/internal/config"
	"github.com/xonecas/sensi/internal/features"
	"github.com/xonecas/sensi/internal/store"
	"github.com/xonecas/sensi/internal/styles"
	"github.com/xonecas/sensi/internal/tui"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run() error {
	flags, err := features.ParseFlags(os.Args[1:])
	if err != nil {
		return fmt.Errorf("%w (see --help)", err)
	}
	if flags.ShowHelp {
		cli.PrintHelp(Version)
		return nil
	}
	if flags.ShowVersion {
		cli.PrintVersion(Version)
		return nil
	}

	if err := setupLogging(flags); err != nil {
		return err
	}

	cfg, cfgPath, err := config.LoadResolved(flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Info().
		Str("version", Version).
		Str("config", cfgPath).
		Msg("Starting sensi")

	reg, err := features.LoadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to load games: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cmds := features.NewCommands(reg, baseline.NewManager(db), cfg.Decimals, cfg.DefaultDPI)

	if flags.OneShot() {
		return cli.RunOneShot(cmds, flags, os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.TUI {
		return tui.Start(ctx, cmds, cfg, flags.Watch)
	}
	return cli.Start(ctx, cmds, cfg, flags.Watch)
}

func setupLogging(flags *features.Flags) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if flags.TUI || flags.Watch {
		// Log to file to keep the display clean
		return features.SetupFileLogging(flags.Debug)
	}

	features.SetupConsoleLogging(flags.Debug)
	return nil
}
