package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/conorfennell/spacedeck/internal/deck"
	"github.com/conorfennell/spacedeck/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := deck.Sync(cfg.CacheDir, cfg.DeckSources)
		if err != nil {
			return err
		}

		session, db, err := openSession()
		if err != nil {
			return err
		}
		defer db.Close()

		server, err := web.NewServer(session, deck.NewFileProvider(roots...))
		if err != nil {
			return err
		}

		fmt.Printf("Listening on http://%s\n", cfg.Listen)
		return http.ListenAndServe(cfg.Listen, server)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
