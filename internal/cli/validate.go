package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [steps...]",
		Short: "Compose the steps and check every invariant, without printing the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts.cfg, args)
			if err != nil {
				return err
			}

			proc, err := s.process()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, step := range proc.Steps {
				fmt.Fprintf(w, "- %s  %s  selector: %s\n", step.Definition.Step, step.Definition.Variant, step.Branch)
			}
			fmt.Fprintf(w, "OK (%d steps, %d objects)\n", len(proc.Steps), len(proc.Names()))

			return nil
		},
	}
}
