package findcmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bibdoi/src/internal/doi"
	"bibdoi/src/internal/input"
)

// New returns the find command, which scans text line by line and prints
// the first DOI of every line that has one. extractor is called once per
// run so it sees the configured mirrors.
func New(extractor func() *doi.Extractor) *cobra.Command {
	var unique, withLines bool
	cmd := &cobra.Command{
		Use:   "find [file|-]...",
		Short: "Find DOIs in free text (plain, gzip or zstd files, or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			f := finder{
				x:         extractor(),
				out:       cmd.OutOrStdout(),
				seen:      map[string]bool{},
				unique:    unique,
				withLines: withLines,
				multi:     len(args) > 1,
				log:       zerolog.Ctx(cmd.Context()),
			}
			for _, name := range args {
				if err := f.scan(name, cmd.InOrStdin()); err != nil {
					return err
				}
			}
			f.log.Debug().Int("found", f.found).Int("lines", f.lines).Msg("scan complete")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&unique, "unique", "u", false, "print each DOI once, ignoring case")
	cmd.Flags().BoolVarP(&withLines, "line-number", "n", false, "prefix each DOI with its line number")
	return cmd
}

type finder struct {
	x         *doi.Extractor
	out       io.Writer
	seen      map[string]bool
	unique    bool
	withLines bool
	multi     bool
	log       *zerolog.Logger

	found, lines int
}

func (f *finder) scan(name string, stdin io.Reader) error {
	r, err := input.Open(name, stdin)
	if err != nil {
		return err
	}
	defer r.Close()
	return input.Lines(r, func(n int, line string) error {
		f.lines++
		d, ok := f.x.FindInText(line)
		if !ok {
			return nil
		}
		if f.unique {
			if f.seen[d.Key()] {
				return nil
			}
			f.seen[d.Key()] = true
		}
		f.found++
		var prefix string
		switch {
		case f.multi && f.withLines:
			prefix = fmt.Sprintf("%s:%d:", name, n)
		case f.multi:
			prefix = name + ":"
		case f.withLines:
			prefix = fmt.Sprintf("%d:", n)
		}
		_, err := fmt.Fprintln(f.out, prefix+d.String())
		return err
	})
}
