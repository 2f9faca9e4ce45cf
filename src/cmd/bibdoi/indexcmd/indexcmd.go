package indexcmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bibdoi/src/internal/store"
)

// New returns the index command which rebuilds the DOI index and reports
// entries that share a DOI.
func New() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the DOI index and report duplicate DOIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := store.ReadAll()
			if err != nil {
				return err
			}
			p, err := store.BuildDOIIndex(entries)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p); err != nil {
				return err
			}
			dups := store.DuplicateDOIs(entries)
			keys := make([]string, 0, len(dups))
			for k := range dups {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log := zerolog.Ctx(cmd.Context())
			for _, k := range keys {
				log.Warn().Str("doi", k).Strs("paths", dups[k]).Msg("duplicate doi")
				if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "duplicate doi %s: %s\n", k, strings.Join(dups[k], ", ")); err != nil {
					return err
				}
			}
			if strict && len(dups) > 0 {
				return fmt.Errorf("%d duplicate DOIs", len(dups))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when entries share a DOI")
	return cmd
}
