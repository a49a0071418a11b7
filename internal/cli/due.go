package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show the cards currently due for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, db, err := openSession()
		if err != nil {
			return err
		}
		defer db.Close()

		due, err := session.Resolver().ListDue(cmd.Context(), cfg.User, cfg.DueLimit)
		if err != nil {
			return fmt.Errorf("could not determine the due set: %w", err)
		}
		if len(due) == 0 {
			fmt.Println("No cards due.")
			return nil
		}

		fmt.Printf("%d card(s) due for %s:\n\n", len(due), cfg.User)
		for _, rec := range due {
			fmt.Printf("  %-28s %-20s %s\n", rec.NextReview.Format("2006-01-02 15:04 MST"), rec.Topic, truncate(rec.Question, 60))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	RootCmd.AddCommand(dueCmd)
}
