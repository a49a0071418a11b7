package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/spacedeck/internal/deck"
)

var studyCmd = &cobra.Command{
	Use:   "study <topic>",
	Short: "Practice a freshly built study deck for a topic",
	Long: "Builds a deck from the topic's markdown file and practices it in the\n" +
		"terminal. Study decks loop: when the last card is rated the deck wraps\n" +
		"around for another pass.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := args[0]

		roots, err := deck.Sync(cfg.CacheDir, cfg.DeckSources)
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			return fmt.Errorf("no deck sources configured; set deck_sources in the config")
		}

		cards, err := deck.NewFileProvider(roots...).GenerateFlashcards(cmd.Context(), topic)
		if err != nil {
			return err
		}

		session, db, err := openSession()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := session.LoadStudyDeck(cmd.Context(), cards); err != nil {
			return err
		}
		fmt.Printf("Studying %q: %d card(s).\n", topic, len(cards))
		return runSession(cmd.Context(), session)
	},
}

func init() {
	RootCmd.AddCommand(studyCmd)
}
