// Package cli implements the fasttrack command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/askiada/go-fasttrack/internal/config"
	"github.com/askiada/go-fasttrack/internal/logger"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions is filled by the persistent pre run and read by the
// subcommands.
type rootOptions struct {
	configFile string
	cfg        config.Config
	cleanup    func() error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "fasttrack",
		Short:        "Compose the fast simulation tracking iterations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			opts.cfg = cfg

			cleanup, err := logger.Setup(logger.Config{
				File:   cfg.LogFile,
				Output: cmd.ErrOrStderr(),
				Format: logger.FormatText,
				Debug:  cfg.Debug,
			})
			if err != nil {
				return err
			}
			opts.cleanup = cleanup

			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if opts.cleanup == nil {
				return nil
			}

			return opts.cleanup()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML profile with the default settings")
	flags.Bool("debug", false, "enable verbose logging")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.String("standard", "", "directory of standard templates (defaults to the embedded catalog)")
	flags.StringSlice("eras", nil, "active era modifiers, comma separated")
	flags.String("variant", string(tracking.Phase1), "build profile of the steps: legacy|phase1")
	flags.String("process", tracking.DefaultProcessName, "name of the composed process")

	cmd.AddCommand(listCmd(opts))
	cmd.AddCommand(buildCmd(opts))
	cmd.AddCommand(validateCmd(opts))
	cmd.AddCommand(drawCmd(opts))

	return cmd
}
