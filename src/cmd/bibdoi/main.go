package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bibdoi/src/cmd/bibdoi/findcmd"
	"bibdoi/src/cmd/bibdoi/indexcmd"
	"bibdoi/src/internal/config"
	"bibdoi/src/internal/doi"
	"bibdoi/src/internal/httpx"
	"bibdoi/src/internal/logging"
	"bibdoi/src/internal/resolve"
	"bibdoi/src/internal/store"
)

// app holds what the root command prepared for the running subcommand.
var app struct {
	cfg       config.Config
	extractor *doi.Extractor
}

// indirections for testability
var newHTTPClient = func(cfg config.Config) httpx.Doer {
	return httpx.NewRetryingClient(cfg.Resolver.Timeout, cfg.Resolver.MaxRetries)
}

func extractor() *doi.Extractor {
	if app.extractor == nil {
		return doi.Default()
	}
	return app.extractor
}

func newRootCmd() *cobra.Command {
	var cfgFile, logLevel string
	root := &cobra.Command{
		Use:           "bibdoi",
		Short:         "Recognize, normalize and resolve DOIs in a YAML bibliography",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			log := logging.Init(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			x, err := cfg.Extractor()
			if err != nil {
				return err
			}
			app.cfg = cfg
			app.extractor = x
			store.SetRoot(cfg.Store.Root)
			resolve.SetHTTPClient(newHTTPClient(cfg))
			resolve.SetUserAgent(cfg.Resolver.UserAgent)
			cmd.SetContext(log.WithContext(cmd.Context()))
			log.Debug().
				Int("mirrors", x.Mirrors().Len()).
				Str("store", cfg.Store.Root).
				Msg("configured")
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $"+config.EnvConfig+" or $XDG_CONFIG_HOME/"+config.DefaultFile+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newParseCmd(),
		newURICmd(),
		newRepairCmd(),
		newLookupCmd(),
		findcmd.New(extractor),
		indexcmd.New(),
	)
	return root
}

var rootCmd = newRootCmd()

func execute() error {
	return rootCmd.Execute()
}

// logger returns the logger attached to cmd by the root command.
func logger(cmd *cobra.Command) *zerolog.Logger {
	return zerolog.Ctx(cmd.Context())
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
