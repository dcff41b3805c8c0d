package main

import (
	"github.com/spf13/cobra"

	"dualpace/internal/serve"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and JSON API, reloading on content changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := serve.New(a.cfg, a.log)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.ListenAndServe(cmd.Context(), a.cfg.Serve.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (serve.addr)")
	a.bind(cmd.Flags(), "serve.addr", "addr")
	return cmd
}
