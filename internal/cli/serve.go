package cli

import (
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/curldocs/internal/server"
)

func (c *CLI) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the docs API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.cfg.ListenAddr
			}

			return server.New(c.log, c.svc, *c.cfg).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to listen_addr)")

	return cmd
}
