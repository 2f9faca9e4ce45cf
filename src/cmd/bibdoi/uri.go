package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newURICmd() *cobra.Command {
	var unicode bool
	cmd := &cobra.Command{
		Use:   "uri <doi>...",
		Short: "Print the https://doi.org resolver URI for each DOI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x := extractor()
			for _, a := range args {
				d, ok := x.Parse(a)
				if !ok {
					return fmt.Errorf("%q: %w", a, errNotDOI)
				}
				u := d.ASCIIURI()
				if unicode {
					u = d.URI()
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), u); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unicode, "unicode", false, "keep non-ASCII characters unescaped")
	return cmd
}
