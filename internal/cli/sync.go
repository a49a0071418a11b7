package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/spacedeck/internal/deck"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Clone or pull the configured git deck sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := deck.Sync(cfg.CacheDir, cfg.DeckSources)
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			fmt.Println("No deck sources configured.")
			return nil
		}

		provider := deck.NewFileProvider(roots...)
		topics, err := provider.Topics()
		if err != nil {
			return err
		}
		fmt.Printf("%d source(s) synced, %d topic(s) available:\n", len(roots), len(topics))
		for _, topic := range topics {
			fmt.Printf("  %s\n", topic)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
