package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bibdoi/src/internal/resolve"
	"bibdoi/src/internal/store"
)

func newLookupCmd() *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "lookup <doi>",
		Short: "Resolve DOI metadata and add an article entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := extractor().Parse(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], errNotDOI)
			}
			if !printOnly {
				entries, err := store.ReadAll()
				if err != nil {
					return err
				}
				if e, ok := store.FindByDOI(entries, d); ok {
					return fmt.Errorf("%s is already stored as %s", d, e.ID)
				}
			}
			e, err := resolve.FetchArticle(cmd.Context(), d)
			if err != nil {
				return err
			}
			if printOnly {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(e); err != nil {
					return err
				}
				return enc.Close()
			}
			path, err := store.WriteEntry(e)
			if err != nil {
				return err
			}
			logger(cmd).Info().Str("doi", d.String()).Str("path", path).Msg("stored")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the entry as YAML instead of storing it")
	return cmd
}
