package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

func listCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the steps, their variants, the era modifiers and the standard templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog(cmd.Context(), opts.cfg.Standard)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Steps:")
			for _, step := range tracking.Steps() {
				variants, err := tracking.Variants(step)
				if err != nil {
					return err
				}
				names := make([]string, len(variants))
				for i, v := range variants {
					names[i] = string(v)
				}
				fmt.Fprintf(w, "- %s  (%s)\n", step, strings.Join(names, ", "))
			}

			fmt.Fprintln(w, "\nEras:")
			for _, name := range era.DefaultRegistry().Names() {
				fmt.Fprintf(w, "- %s\n", name)
			}

			fmt.Fprintln(w, "\nStandard templates:")
			for _, step := range catalog.Steps() {
				tmpl, err := catalog.Template(step)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "- %s  (%d objects)\n", step, len(tmpl.Names()))
			}

			return nil
		},
	}
}
