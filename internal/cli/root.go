// Package cli wires the command-line surface: the bare command opens the
// TUI, subcommands cover scripting use (add, list, stats, export).
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ecemunal/planline/internal/config"
	"github.com/ecemunal/planline/internal/logger"
	"github.com/ecemunal/planline/internal/storage"
	"github.com/ecemunal/planline/internal/store"
	"github.com/ecemunal/planline/internal/tui"
)

var (
	flagBackend    string
	flagDataDir    string
	flagLogLevel   string
	flagLogConsole bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "planline",
	Short:        "Task planner with built-in time tracking",
	Long:         "planline is a keyboard-driven planner: organize items into today, upcoming and habits, track time against them and review where the hours went.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if flagLogConsole {
			cfg.LogConsole = true
		}

		return logger.Init(logger.Config{
			Level:    logger.ParseLevel(cfg.LogLevel),
			FilePath: cfg.LogFile,
			Console:  cfg.LogConsole,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		app := tui.NewApp(s)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (sqlite|file)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "override the data directory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&flagLogConsole, "log-console", false, "also log to stderr")
}

// openStore builds the persistence adapter the config names and loads the
// planner state through it. The returned closer flushes and releases both.
func openStore() (*store.Store, func(), error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = config.DefaultDataDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve data directory: %w", err)
		}
	}

	var (
		p      store.Persister
		dbClos func() error
	)
	switch cfg.Backend {
	case config.BackendFile:
		f, err := storage.NewFile(filepath.Join(dataDir, "state.json"))
		if err != nil {
			return nil, nil, err
		}
		p = f
	default:
		db, err := storage.NewSQLite(storage.DefaultDBPath(dataDir))
		if err != nil {
			return nil, nil, err
		}
		p = db
		dbClos = db.Close
	}

	s, err := store.New(p)
	if err != nil {
		if dbClos != nil {
			dbClos()
		}
		return nil, nil, err
	}

	closer := func() {
		if err := s.Close(); err != nil {
			logger.Error("close store", logger.F("error", err))
		}
		if dbClos != nil {
			dbClos()
		}
		logger.Close()
	}
	return s, closer, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
