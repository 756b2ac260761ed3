// Command grudgebook is the terminal front end of the grudge journal.
// Records and the theme live in a SQLite file; see internal/config for settings.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kittclouds/grudgebook/internal/config"
	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/journal"
	"github.com/kittclouds/grudgebook/pkg/view"
)

var (
	dbPath string
	debug  bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "grudgebook",
		Short:         "小咪的记仇本: a tiny grudge journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.InitLogger()
			if debug {
				config.SetLogLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				config.SetLogLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite file holding the journal (default $GRUDGEBOOK_DB_PATH or ~/.grudgebook/grudgebook.db)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRecentCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newRestoreCmd())

	return rootCmd
}

// app is one opened journal.
type app struct {
	slot   *store.SQLiteStore
	svc    *journal.Service
	runner *view.Runner
}

// openApp resolves configuration and opens the journal file.
func openApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if !debug {
		lvl, err := cfg.Level()
		if err != nil {
			return nil, err
		}
		config.SetLogLevel(lvl)
	}

	path := cfg.DBPath
	if dbPath != "" {
		path = dbPath
	}

	slot, err := store.NewSQLiteStoreWithDSN(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	logger := log.Logger
	opts := []store.Option{store.WithLogger(logger)}
	if cfg.FailSoft {
		opts = append(opts, store.WithFailSoft())
	}

	svc := journal.New(
		store.NewRecordStore(slot, opts...),
		store.NewThemeStore(slot),
		journal.WithLogger(logger),
		journal.WithRecentLimit(cfg.RecentLimit),
		journal.WithBackup(slot),
	)

	log.Debug().Str("db", path).Msg("journal opened")
	return &app{slot: slot, svc: svc, runner: view.NewRunner(svc, logger)}, nil
}

func (a *app) Close() error {
	return a.slot.Close()
}

// withApp opens the journal for the duration of fn.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printNotices(w io.Writer, notices []string) {
	for _, n := range notices {
		fmt.Fprintln(w, n)
	}
}
