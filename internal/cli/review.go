package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/spacedeck/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the cards that are due",
	Long: "Pulls the due queue and practices it in the terminal. The session ends\n" +
		"when the last due card is rated.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, db, err := openSession()
		if err != nil {
			return err
		}
		defer db.Close()

		err = session.LoadDueDeck(cmd.Context(), cfg.DueLimit)
		if errors.Is(err, review.ErrNothingDue) {
			fmt.Println("No cards due. Well done.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not load the due deck: %w", err)
		}

		_, total := session.Progress()
		fmt.Printf("%d card(s) due.\n", total)
		return runSession(cmd.Context(), session)
	},
}

func init() {
	RootCmd.AddCommand(reviewCmd)
}
