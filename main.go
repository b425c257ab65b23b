package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/blossom/internal/config"
	"github.com/sadopc/blossom/internal/logging"
	"github.com/sadopc/blossom/internal/persist"
	"github.com/sadopc/blossom/internal/store"
	"github.com/sadopc/blossom/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	logger, closer, err := logging.Open(logging.Options{
		Path:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	logger.Info("starting", "db", cfg.DBPath, "key", cfg.StorageKey, "config", cfg.Source)
	if keys, err := s.Keys(); err == nil {
		logger.Debug("stored entries", "keys", keys)
	}

	bridge := persist.NewBridge(s, cfg.StorageKey, logger)
	list := bridge.Hydrate()
	logger.Info("tasks loaded", "count", list.Len())

	app := tui.NewApp(s, list, bridge, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	logger.Info("exiting", "count", list.Len())
	return nil
}
