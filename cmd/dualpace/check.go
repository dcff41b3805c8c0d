package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dualpace/internal/build"
	domainerr "dualpace/internal/domain/errors"
)

var errCheckFailed = errors.New("check failed")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every post of every locale and report each failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(a, cmd.OutOrStdout())
		},
	}
}

func runCheck(a *app, out io.Writer) error {
	repo := build.NewRepository(a.cfg, a.log)

	var total, bad int
	for _, loc := range a.cfg.SiteLocales() {
		slugs, err := repo.Slugs(string(loc))
		if err != nil {
			return err
		}
		for _, slug := range slugs {
			total++
			_, err := repo.Get(slug, string(loc))
			if err == nil {
				continue
			}
			bad++
			if ve, ok := domainerr.AsValidation(err); ok {
				for _, item := range ve.Items {
					fmt.Fprintf(out, "%s/%s: %s\n", loc, slug, item.Error())
				}
				continue
			}
			fmt.Fprintf(out, "%s/%s: %v\n", loc, slug, err)
		}
	}

	fmt.Fprintf(out, "%d posts checked, %d invalid\n", total, bad)
	if bad > 0 {
		return fmt.Errorf("%w: %d invalid posts", errCheckFailed, bad)
	}
	return nil
}
