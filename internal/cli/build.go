package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-fasttrack/internal/config"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

func buildCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "build [steps...]",
		Short: "Compose the steps and print the resulting process",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts.cfg, args)
			if err != nil {
				return err
			}

			proc, err := s.process()
			if err != nil {
				return err
			}

			if opts.cfg.Output == "" {
				return printProcess(cmd.OutOrStdout(), proc, opts.cfg.Format)
			}

			file, err := os.Create(opts.cfg.Output)
			if err != nil {
				return errors.Wrapf(err, "unable to create %s", opts.cfg.Output)
			}
			err = printProcess(file, proc, opts.cfg.Format)
			if err != nil {
				_ = file.Close()

				return err
			}

			return file.Close()
		},
	}

	c.Flags().StringP("format", "f", config.FormatYAML, "Output format: yaml|expression")
	c.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	return c
}

func printProcess(w io.Writer, proc *tracking.Process, format string) error {
	switch format {
	case config.FormatExpression:
		_, err := fmt.Fprintln(w, proc.Schedule())

		return err
	case config.FormatYAML, "":
		return proc.WriteYAML(w)
	default:
		return errors.Wrap(config.ErrUnknownFormat, format)
	}
}
