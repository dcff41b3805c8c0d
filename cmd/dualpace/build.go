package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dualpace/internal/build"
)

func newBuildCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the static site for every locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &build.Builder{Cfg: a.cfg, Log: a.log, Force: force}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Path, w.Msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d posts, %d pages written, %d unchanged -> %s\n",
				res.Posts, res.Written, res.Skipped, a.cfg.Build.PublicDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "re-render every post page")
	cmd.Flags().String("out", "", "output directory (build.public_dir)")
	a.bind(cmd.Flags(), "build.public_dir", "out")
	return cmd
}
