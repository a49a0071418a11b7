package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/conorfennell/spacedeck/internal/review"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

// runSession drives an interactive terminal session: show the question,
// Enter reveals the answer, 1-4 rates, q quits.
func runSession(ctx context.Context, s *review.Session) error {
	in := bufio.NewScanner(os.Stdin)

	for s.Active() {
		card, _ := s.Current()
		pos, total := s.Progress()
		fmt.Printf("\n[%d/%d] %s  (%d due)\n", pos+1, total, card.Topic, s.DueCount())
		fmt.Printf("Q: %s\n", card.Question)

		fmt.Print("\n  press Enter to reveal, q to quit: ")
		if !in.Scan() {
			return in.Err()
		}
		if strings.TrimSpace(in.Text()) == "q" {
			return nil
		}

		s.Reveal()
		fmt.Printf("\nA: %s\n", card.Answer)

		rated := false
		for !rated {
			fmt.Print("\n  rate it  1=again 2=hard 3=good 4=easy, q to quit: ")
			if !in.Scan() {
				return in.Err()
			}
			text := strings.TrimSpace(in.Text())
			if text == "q" {
				return nil
			}

			n, err := strconv.Atoi(text)
			if err != nil {
				fmt.Println("  enter a number from 1 to 4")
				continue
			}

			out, err := s.Rate(ctx, sm2.Rating(n))
			if errors.Is(err, sm2.ErrInvalidRating) {
				fmt.Println("  enter a number from 1 to 4")
				continue
			}
			if err != nil {
				return err
			}
			rated = true

			fmt.Printf("  next review in %d day(s)\n", out.Schedule.Interval)
			if out.Looped {
				fmt.Println("\nDeck finished - starting another pass. Quit with q.")
			}
			if out.Ended {
				fmt.Println("\nAll due cards reviewed. Session complete.")
			}
		}
	}
	return nil
}
