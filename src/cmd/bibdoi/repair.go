package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bibdoi/src/internal/store"
)

func newRepairCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Normalize article DOIs and resolver URLs in-place",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := store.Load()
			if err != nil {
				return err
			}
			x := extractor()
			verb := "updated"
			if dryRun {
				verb = "would update"
			}
			changed := 0
			for _, r := range recs {
				before := r.Entry.APA7.DOI
				if !store.NormalizeArticleDOI(&r.Entry, x) {
					continue
				}
				changed++
				logger(cmd).Debug().
					Str("path", r.Path).
					Str("from", before).
					Str("to", r.Entry.APA7.DOI).
					Msg("normalized")
				if !dryRun {
					if err := store.Rewrite(r); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, r.Path); err != nil {
					return err
				}
			}
			if changed == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	return cmd
}
