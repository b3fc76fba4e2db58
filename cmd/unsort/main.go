package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/adapters/tui"
	"unsort/internal/bootstrap"
	"unsort/internal/config"
	"unsort/internal/logging"
)

func main() {
	var opts config.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "path to the config file")
	flag.StringVar(&opts.DataDir, "data-dir", "", "directory holding notes and preferences")
	flag.StringVar(&opts.Store, "store", "", "document store: json or sqlite")
	flag.StringVar(&opts.LogLevel, "log-level", "", "log level")
	flag.StringVar(&opts.LogFile, "log-file", "", "log file (default <data-dir>/unsort.log)")
	flag.BoolVar(&opts.Offline, "offline", false, "do not contact the memory service")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts config.Options) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	// The screen belongs to the TUI, so logs always go to a file
	logFile := cfg.LogFile.Value
	if logFile == "" {
		logFile = filepath.Join(cfg.DataDir.Value, "unsort.log")
	}
	logger, closer, err := logging.Open(logFile, cfg.LogLevel.Value, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	ws, err := bootstrap.Workspace(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer ws.Close()

	p := tea.NewProgram(tui.NewApp(ws, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui stopped", "err", err)
		return err
	}
	return nil
}
