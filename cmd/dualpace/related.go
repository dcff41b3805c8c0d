package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dualpace/internal/build"
	"dualpace/internal/domain/content"
	"dualpace/internal/related"
)

func newRelatedCmd(a *app) *cobra.Command {
	var (
		locale string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "related <slug>",
		Short: "Print the related posts ranked for one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, ok := content.ParseLocale(locale)
			if !ok {
				return fmt.Errorf("unknown locale %q", locale)
			}
			if limit == 0 {
				limit = a.cfg.Content.RelatedLimit
			}
			if limit == 0 {
				limit = related.DefaultLimit
			}

			repo := build.NewRepository(a.cfg, a.log)
			doc, err := repo.Get(args[0], string(loc))
			if err != nil {
				return err
			}
			posts, err := repo.Posts(string(loc))
			if err != nil {
				return err
			}

			ranked, found := related.For(content.ToPost(doc.Frontmatter), posts, related.WithLimit(limit))
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintln(out, "no related posts")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, p := range ranked {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.PublishedAt, p.Category, p.Slug, p.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&locale, "locale", string(content.LocaleEN), "post locale")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of posts (default content.related_limit)")
	return cmd
}
