package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bibdoi/src/internal/doi"
	"bibdoi/src/internal/input"
)

// parseResult is one parsed input as printed by parse --format json|yaml.
type parseResult struct {
	Input      string `json:"input" yaml:"input"`
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Short      bool   `json:"short,omitempty" yaml:"short,omitempty"`
	Registrant string `json:"registrant,omitempty" yaml:"registrant,omitempty"`
	Suffix     string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	URI        string `json:"uri,omitempty" yaml:"uri,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newParseCmd() *cobra.Command {
	var strict bool
	var format string
	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Parse DOIs, URIs and prefixed identifiers into canonical form",
		Long: "Parse each argument (or each stdin line when none are given) as a DOI.\n" +
			"By default input is sanitized first; --strict reports why an input was rejected.",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
			}
			inputs := args
			if len(inputs) == 0 {
				err := input.Lines(cmd.InOrStdin(), func(_ int, line string) error {
					inputs = append(inputs, line)
					return nil
				})
				if err != nil {
					return err
				}
			}
			x := extractor()
			results := make([]parseResult, 0, len(inputs))
			failed := 0
			for _, in := range inputs {
				r := parseResult{Input: in}
				d, err := parseOne(x, in, strict)
				if err != nil {
					failed++
					r.Error = err.Error()
					logger(cmd).Debug().Str("input", in).Err(err).Msg("rejected")
				} else {
					r.DOI = d.String()
					r.Short = d.IsShort()
					r.Registrant = d.Registrant()
					r.Suffix = d.Suffix()
					r.URI = d.ASCIIURI()
				}
				results = append(results, r)
			}
			if err := writeResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs are not DOIs", failed, len(inputs))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "skip sanitization and report rejection reasons")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

var errNotDOI = errors.New("no doi found")

func parseOne(x *doi.Extractor, in string, strict bool) (doi.DOI, error) {
	if strict {
		return x.New(in)
	}
	if d, ok := x.Parse(in); ok {
		return d, nil
	}
	return doi.DOI{}, errNotDOI
}

func writeResults(out, errOut io.Writer, format string, results []parseResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, r := range results {
		if r.Error != "" {
			if _, err := fmt.Fprintf(errOut, "%q: %s\n", r.Input, r.Error); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(out, r.DOI); err != nil {
			return err
		}
	}
	return nil
}
