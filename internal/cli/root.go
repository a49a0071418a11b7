// Package cli implements the spacedeck commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/conorfennell/spacedeck/internal/clock"
	"github.com/conorfennell/spacedeck/internal/config"
	"github.com/conorfennell/spacedeck/internal/review"
	"github.com/conorfennell/spacedeck/internal/storage"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "spacedeck",
	Short: "Spaced-repetition flashcards from markdown decks",
	Long: "spacedeck schedules flashcard reviews with SM-2: study decks parsed from\n" +
		"markdown files, a due queue in SQLite, and practice sessions in the\n" +
		"terminal or the browser.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load(cfgFile, cmd.Flags())
		return err
	},
}

func init() {
	def := config.Default()
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "Path to a YAML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.String("db-path", def.DBPath, "Path to the SQLite database file")
	pf.String("user", def.User, "User the reviews belong to")
	pf.String("listen", def.Listen, "Address the web UI listens on")
	pf.Int("due-limit", def.DueLimit, "Maximum cards pulled into a due-review deck")
	pf.StringSlice("deck-sources", def.DeckSources, "Deck directories or git URLs")
	pf.String("cache-dir", def.CacheDir, "Directory git deck sources are synced into")
}

// Execute runs the CLI.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openSession opens the database and builds a session for the
// configured user. The caller closes the returned DB.
func openSession() (*review.Session, *storage.DB, error) {
	db, err := storage.Open(cfg.DBPath, clock.System{})
	if err != nil {
		return nil, nil, err
	}
	return review.NewSession(cfg.User, db, clock.System{}, slog.Default()), db, nil
}
